package registry

import (
	"context"
	"fmt"
	"sort"
)

// ResolveDependencies flattens root's dependency tree into a post-order
// list: every dependency precedes the node that depends on it, siblings
// sorted by id ascending so the order is deterministic across runs and
// machines. A visited set guards against cycles and diamond-shaped shared
// subgraphs; the registry is assumed acyclic but this must still terminate
// and cover every reachable node exactly once.
func ResolveDependencies(ctx context.Context, client Client, root *TemplateVersion) ([]*TemplateVersion, error) {
	visited := map[string]bool{}
	var order []*TemplateVersion

	var visit func(tv *TemplateVersion) error
	visit = func(tv *TemplateVersion) error {
		if visited[tv.ID()] {
			return nil
		}
		visited[tv.ID()] = true

		deps := make([]Dependency, len(tv.Templates))
		copy(deps, tv.Templates)
		sort.Slice(deps, func(i, j int) bool { return deps[i].ID < deps[j].ID })

		for _, dep := range deps {
			if visited[dep.ID] {
				continue
			}
			depVersion, err := client.GetByID(ctx, dep.ID)
			if err != nil {
				return fmt.Errorf("registry: fetch dependency %q of %q: %w", dep.ID, tv.ID(), err)
			}
			if err := visit(depVersion); err != nil {
				return err
			}
		}

		order = append(order, tv)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
