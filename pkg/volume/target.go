// Package volume implements the client model for reading files from
// distributed-filesystem volume exports: connection targets, translator
// options, sessions over pluggable drivers, and the locked streaming read.
package volume

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Scheme is the URL scheme for volume resource identifiers.
const Scheme = "dfs"

// DefaultPort is the well-known volume management port, used when a URL
// does not carry an explicit port.
const DefaultPort uint16 = 24007

// Target identifies a single file on a volume export. Host and Volume are
// required for fresh connections; a Target produced by ParsePath carries
// only the path and is meant for use against an existing session.
// Targets are immutable once parsed.
type Target struct {
	Host   string
	Port   uint16
	Volume string
	Path   string
}

// ParseURL parses a full resource identifier of the form
// dfs://host[:port]/volume/path. The port defaults to DefaultPort when
// unspecified; an explicit but invalid port is rejected here, before any
// connection attempt.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %q", ErrMalformedURL, raw)
	}
	if u.Scheme != Scheme {
		return Target{}, fmt.Errorf("%w: %q: scheme must be %q", ErrMalformedURL, raw, Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return Target{}, fmt.Errorf("%w: %q: missing host", ErrMalformedURL, raw)
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = ParsePort(p)
		if err != nil {
			return Target{}, fmt.Errorf("%w: %q: %v", ErrMalformedURL, raw, err)
		}
	}

	vol, rest, ok := splitVolumePath(u.Path)
	if !ok {
		return Target{}, fmt.Errorf("%w: %q: expected /volume/path after host", ErrMalformedURL, raw)
	}

	return Target{Host: host, Port: port, Volume: vol, Path: rest}, nil
}

// ParsePath parses a bare remote-absolute path for use against an already
// established session. Host, port, and volume are irrelevant in this mode.
func ParsePath(raw string) (Target, error) {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return Target{}, fmt.Errorf("%w: %q: path must be absolute", ErrMalformedURL, raw)
	}
	clean := path.Clean(raw)
	if clean == "/" {
		return Target{}, fmt.Errorf("%w: %q: path names no file", ErrMalformedURL, raw)
	}
	return Target{Path: clean}, nil
}

// ParsePort validates a port string as a positive 16-bit value.
func ParsePort(raw string) (uint16, error) {
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, raw)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, raw)
	}
	return uint16(n), nil
}

// String renders the target back into identifier form.
func (t Target) String() string {
	if t.Host == "" {
		return t.Path
	}
	return fmt.Sprintf("%s://%s:%d/%s%s", Scheme, t.Host, t.Port, t.Volume, t.Path)
}

// splitVolumePath splits a URL path of the form /volume/rest into the
// volume name and the remote-absolute file path within it.
func splitVolumePath(p string) (vol, rest string, ok bool) {
	p = path.Clean(p)
	trimmed := strings.TrimPrefix(p, "/")
	vol, rest, found := strings.Cut(trimmed, "/")
	if !found || vol == "" || rest == "" {
		return "", "", false
	}
	return vol, "/" + rest, true
}
