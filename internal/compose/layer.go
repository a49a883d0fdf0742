package compose

import "github.com/cyanprint/cyancore/internal/vfs"

// Layer merges a sequence of VFS outputs left to right: a later VFS's
// content for a path always dominates an earlier one's, with no common
// ancestor involved. For any path p, Layer(vs...)[p] == vs[k][p] where k is
// the largest index at which p appears.
func Layer(vfss ...*vfs.VFS) *vfs.VFS {
	result := vfs.New()
	for _, v := range vfss {
		if v == nil {
			continue
		}
		for _, p := range v.Paths() {
			content, _ := v.GetPath(p)
			result.AddPath(p, content)
		}
	}
	return result
}
