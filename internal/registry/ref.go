package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref is a parsed CLI template reference: "user/name[:version]". A nil
// Version means "latest".
type Ref struct {
	Username     string
	TemplateName string
	Version      *int64
}

// ParseRef parses the CLI-accepted template reference syntax.
func ParseRef(s string) (Ref, error) {
	userAndRest, nameAndVersion, ok := strings.Cut(s, "/")
	if !ok || userAndRest == "" || nameAndVersion == "" {
		return Ref{}, fmt.Errorf("registry: invalid template reference %q, want user/name[:version]", s)
	}

	name := nameAndVersion
	var version *int64
	if n, v, ok := strings.Cut(nameAndVersion, ":"); ok {
		name = n
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return Ref{}, fmt.Errorf("registry: invalid version in reference %q, want a positive integer", s)
		}
		version = &parsed
	}
	if name == "" {
		return Ref{}, fmt.Errorf("registry: invalid template reference %q, missing name", s)
	}

	return Ref{Username: userAndRest, TemplateName: name, Version: version}, nil
}

func (r Ref) String() string {
	if r.Version == nil {
		return r.Username + "/" + r.TemplateName
	}
	return fmt.Sprintf("%s/%s:%d", r.Username, r.TemplateName, *r.Version)
}
