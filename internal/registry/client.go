package registry

import "context"

// Client is the registry's external contract, consumed but not defined by
// this core: fetch a version by slug (optionally pinned), list versions,
// or fetch a version by its opaque id (used by the dependency resolver).
type Client interface {
	GetBySlug(ctx context.Context, username, templateName string, version *int64) (*TemplateVersion, error)
	ListVersions(ctx context.Context, username, templateName string, skip, limit int) ([]TemplateVersion, error)
	GetByID(ctx context.Context, id string) (*TemplateVersion, error)
}
