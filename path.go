package f16fs

import (
	"fmt"
	"strings"
)

// splitPath tokenizes an absolute path into ordered name components.
// The root path "/" yields an empty token slice. Any component longer
// than maxNameLength is rejected.
func splitPath(p string) ([]string, error) {
	if p == "" || p[0] != '/' {
		return nil, fmt.Errorf("%w: path must be absolute: %q", ErrInvalidArgument, p)
	}

	var tokens []string
	for _, part := range strings.Split(p, "/") {
		if part == "" {
			continue
		}
		if len(part) > maxNameLength {
			return nil, fmt.Errorf("%w: path component %q longer than %d bytes", ErrInvalidArgument, part, maxNameLength)
		}
		tokens = append(tokens, part)
	}
	return tokens, nil
}

// validatePath applies the checks every mutating namespace operation
// shares: non-empty, absolute, not the bare root, no trailing slash,
// and within the overall length ceiling.
func validatePath(p string) error {
	if p == "" || p == "/" || p[0] != '/' {
		return fmt.Errorf("%w: path %q must be an absolute, non-root path", ErrInvalidArgument, p)
	}
	if strings.HasSuffix(p, "/") {
		return fmt.Errorf("%w: path %q must not end in /", ErrInvalidArgument, p)
	}
	if len(p) > maxPathLength {
		return fmt.Errorf("%w: path %q longer than %d bytes", ErrInvalidArgument, p, maxPathLength)
	}
	return nil
}

// basename splits tokens into (parent tokens, final component). It
// assumes tokens is non-empty, as guaranteed by validatePath rejecting
// the bare root before callers tokenize.
func basename(tokens []string) (parent []string, name string) {
	return tokens[:len(tokens)-1], tokens[len(tokens)-1]
}
