package volume

import (
	"fmt"
	"strings"
)

// Option is a single translator override of the form xlator.key=value.
// Options alter the behavior of a layer in the client's processing
// pipeline and are applied once, at session setup.
type Option struct {
	Key   string
	Value string
}

// Options is an ordered, append-only list of translator overrides.
// Duplicate keys are allowed and later entries never overwrite earlier
// ones: options are applied in insertion order, exactly as given.
type Options []Option

// ParseOption validates a raw key=value string. The key must name a
// translator and an option, separated by a dot, and the value must be
// non-empty.
func ParseOption(raw string) (Option, error) {
	key, value, found := strings.Cut(raw, "=")
	if !found {
		return Option{}, fmt.Errorf("%w: %q: missing '='", ErrMalformedOption, raw)
	}
	if key == "" {
		return Option{}, fmt.Errorf("%w: %q: empty key", ErrMalformedOption, raw)
	}
	xlator, name, ok := strings.Cut(key, ".")
	if !ok || xlator == "" || name == "" {
		return Option{}, fmt.Errorf("%w: %q: key must be of the form xlator.option", ErrMalformedOption, raw)
	}
	if value == "" {
		return Option{}, fmt.Errorf("%w: %q: empty value", ErrMalformedOption, raw)
	}
	return Option{Key: key, Value: value}, nil
}

// ParseOptions validates raw key=value strings in order, preserving
// insertion order and count. The first malformed entry aborts parsing.
func ParseOptions(raws []string) (Options, error) {
	opts := make(Options, 0, len(raws))
	for _, raw := range raws {
		opt, err := ParseOption(raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func (o Option) String() string {
	return o.Key + "=" + o.Value
}
