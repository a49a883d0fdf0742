package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	byID map[string]*TemplateVersion
}

func (f *fakeClient) GetBySlug(ctx context.Context, username, name string, version *int64) (*TemplateVersion, error) {
	return nil, fmt.Errorf("not implemented in fake")
}

func (f *fakeClient) ListVersions(ctx context.Context, username, name string, skip, limit int) ([]TemplateVersion, error) {
	return nil, fmt.Errorf("not implemented in fake")
}

func (f *fakeClient) GetByID(ctx context.Context, id string) (*TemplateVersion, error) {
	tv, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("no such template version %q", id)
	}
	return tv, nil
}

func TestResolveDependenciesPostOrderSortedSiblings(t *testing.T) {
	d1 := &TemplateVersion{Principal: Principal{ID: "d1", Version: 1}}
	d2 := &TemplateVersion{Principal: Principal{ID: "d2", Version: 1}}
	root := &TemplateVersion{
		Principal: Principal{ID: "root", Version: 1},
		Templates: []Dependency{{ID: "d2"}, {ID: "d1"}},
	}

	client := &fakeClient{byID: map[string]*TemplateVersion{"d1": d1, "d2": d2}}

	order, err := ResolveDependencies(context.Background(), client, root)
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, "d1", order[0].ID())
	assert.Equal(t, "d2", order[1].ID())
	assert.Equal(t, "root", order[2].ID())
}

func TestResolveDependenciesSharedSubgraphVisitedOnce(t *testing.T) {
	shared := &TemplateVersion{Principal: Principal{ID: "shared", Version: 1}}
	a := &TemplateVersion{Principal: Principal{ID: "a", Version: 1}, Templates: []Dependency{{ID: "shared"}}}
	root := &TemplateVersion{
		Principal: Principal{ID: "root", Version: 1},
		Templates: []Dependency{{ID: "a"}, {ID: "shared"}},
	}

	client := &fakeClient{byID: map[string]*TemplateVersion{"shared": shared, "a": a}}

	order, err := ResolveDependencies(context.Background(), client, root)
	require.NoError(t, err)

	var ids []string
	for _, tv := range order {
		ids = append(ids, tv.ID())
	}
	assert.Equal(t, []string{"shared", "a", "root"}, ids)
}
