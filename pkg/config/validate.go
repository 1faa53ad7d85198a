package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the configuration for invalid values. Struct-tag
// validation covers levels, formats, and driver names; volume names are
// additionally checked for duplicates, which the registry would reject
// later with a worse message.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				msgs = append(msgs, describeValidationError(ve))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	seen := make(map[string]struct{}, len(cfg.Volumes))
	for _, vc := range cfg.Volumes {
		if _, dup := seen[vc.Name]; dup {
			return fmt.Errorf("invalid configuration: volume %q declared twice", vc.Name)
		}
		seen[vc.Name] = struct{}{}
	}

	return nil
}

// describeValidationError renders a single struct-tag failure in terms
// of the config file, not Go field paths.
func describeValidationError(ve validator.FieldError) string {
	field := strings.ToLower(ve.Field())
	switch ve.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required for this driver", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, ve.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, ve.Tag())
	}
}
