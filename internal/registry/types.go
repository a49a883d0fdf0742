// Package registry describes the registry's template-version shape and the
// dependency resolver built on it. The registry service itself is an
// external collaborator: this package defines only the contract it must
// satisfy and the pure algorithm (post-order resolution) layered on top.
package registry

import "encoding/json"

// Principal carries a template version's identity and, when present, the
// executable payload marker. A nil Properties means this is a group
// template: it has dependencies but produces no output of its own.
type Principal struct {
	ID         string          `json:"id"`
	Version    int64           `json:"version"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

// IsGroup reports whether this version is a pure group template.
func (p Principal) IsGroup() bool { return len(p.Properties) == 0 }

// Dependency references another template version by id.
type Dependency struct {
	ID string `json:"id"`
}

// TemplateVersion is the opaque-to-the-core shape the registry returns for
// a single version of a template.
type TemplateVersion struct {
	Principal    Principal    `json:"principal"`
	TemplateName string       `json:"template_name"`
	Username     string       `json:"username"`
	Templates    []Dependency `json:"templates"`
}

// ID is a convenience accessor for Principal.ID.
func (t TemplateVersion) ID() string { return t.Principal.ID }
