package numbering

import (
	"fmt"
	"sort"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
)

// Scheme is the immutable numbering configuration: a fixed 4-digit
// year literal and the evaluation-type → 3-letter-code table. Numbers
// take the form <year><code><seq>, e.g. 2026AAP0001, with seq a
// zero-padded counter scoped per (year, code) prefix.
type Scheme struct {
	Year  string
	Codes map[string]string

	// AllowCorruptReset restores the legacy behavior of restarting a
	// sequence at 1 when the stored max number cannot be parsed. Off by
	// default: a malformed number is an integrity error.
	AllowCorruptReset bool
}

// NewScheme copies the code table so later mutation of the source map
// cannot change allocation behavior.
func NewScheme(year string, codes map[string]string) Scheme {
	cp := make(map[string]string, len(codes))
	for k, v := range codes {
		cp[k] = v
	}
	return Scheme{Year: year, Codes: cp}
}

// Code returns the 3-letter code for a type name.
func (s Scheme) Code(projectType string) (string, bool) {
	code, ok := s.Codes[projectType]
	return code, ok
}

// Prefix returns the <year><code> namespace for a type name.
func (s Scheme) Prefix(projectType string) (string, error) {
	code, ok := s.Codes[projectType]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidType, projectType)
	}
	return s.Year + code, nil
}

// Names returns the configured type names in stable order.
func (s Scheme) Names() []string {
	out := make([]string, 0, len(s.Codes))
	for name := range s.Codes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
