package merge

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/cyanprint/cyancore/internal/cyanerr"
	"github.com/cyanprint/cyancore/internal/vfs"
)

const defaultRenameScore = 50

// GitMerger is the repository-backed alternative Merger. It builds ephemeral
// git tree objects for base and incoming in an in-memory store, asks go-git's
// tree differ for a rename-aware diff between them, and uses that to follow
// a file across a rename before delegating the actual content reconciliation
// to TextMerger. Plain line-level merging is identical to TextMerger; the
// only difference is that an edit local made to a file incoming renamed is
// not silently dropped.
type GitMerger struct {
	Logger *slog.Logger

	// RenameScore is the similarity percentage (0-100) above which two
	// add/delete pairs are treated as a rename. Zero means defaultRenameScore.
	RenameScore int

	fallback *TextMerger
}

// NewGitMerger builds a GitMerger with the default rename similarity
// threshold.
func NewGitMerger(logger *slog.Logger) *GitMerger {
	return &GitMerger{Logger: logger, RenameScore: defaultRenameScore}
}

func (m *GitMerger) renameScore() uint {
	if m.RenameScore <= 0 {
		return defaultRenameScore
	}
	return uint(m.RenameScore)
}

// Merge implements Merger.
func (m *GitMerger) Merge(base, local, incoming *vfs.VFS) (*vfs.VFS, []Conflict, error) {
	renames, err := detectRenames(base, incoming, m.renameScore())
	if err != nil {
		return nil, nil, err
	}

	remappedBase, remappedLocal := applyRenames(base, local, renames)

	fallback := m.fallback
	if fallback == nil {
		fallback = &TextMerger{Logger: m.Logger}
	}
	return fallback.Merge(remappedBase, remappedLocal, incoming)
}

// applyRenames rewrites base and local so that a path incoming renamed lines
// up under its new name for the content merge below. If local already
// carried forward its own content at the new name (it made an unrelated
// edit there, or renamed the file itself), the detected rename is not
// applied for that path and the original layout is left untouched.
func applyRenames(base, local *vfs.VFS, renames map[vfs.Path]vfs.Path) (*vfs.VFS, *vfs.VFS) {
	remappedBase := vfs.New()
	remappedLocal := vfs.New()
	movedBase := map[vfs.Path]bool{}
	movedLocal := map[vfs.Path]bool{}

	for oldPath, newPath := range renames {
		baseContent, ok := base.GetPath(oldPath)
		if !ok {
			continue
		}
		if _, clobbers := local.GetPath(newPath); clobbers {
			continue
		}

		remappedBase.AddPath(newPath, baseContent)
		movedBase[oldPath] = true

		if localContent, ok := local.GetPath(oldPath); ok {
			remappedLocal.AddPath(newPath, localContent)
			movedLocal[oldPath] = true
		}
	}

	for _, p := range base.Paths() {
		if movedBase[p] {
			continue
		}
		content, _ := base.GetPath(p)
		remappedBase.AddPath(p, content)
	}
	for _, p := range local.Paths() {
		if movedLocal[p] {
			continue
		}
		content, _ := local.GetPath(p)
		remappedLocal.AddPath(p, content)
	}

	return remappedBase, remappedLocal
}

// detectRenames diffs base against incoming as git trees and returns the
// old-path to new-path map for changes go-git's similarity heuristic judges
// to be renames rather than independent add/delete pairs.
func detectRenames(base, incoming *vfs.VFS, score uint) (map[vfs.Path]vfs.Path, error) {
	st := memory.NewStorage()

	baseTree, err := buildTree(st, base)
	if err != nil {
		return nil, &cyanerr.IOError{Op: "build base git tree", Err: err}
	}
	incomingTree, err := buildTree(st, incoming)
	if err != nil {
		return nil, &cyanerr.IOError{Op: "build incoming git tree", Err: err}
	}

	changes, err := object.DiffTreeWithOptions(context.Background(), baseTree, incomingTree, &object.DiffTreeOptions{
		DetectRenames: true,
		RenameScore:   score,
	})
	if err != nil {
		return nil, &cyanerr.IOError{Op: "diff base and incoming trees", Err: err}
	}

	renames := map[vfs.Path]vfs.Path{}
	for _, change := range changes {
		if change.From.Name == "" || change.To.Name == "" {
			continue // pure add or pure delete
		}
		if change.From.Name == change.To.Name {
			continue // ordinary modify
		}
		oldPath, err := vfs.NewPath(change.From.Name)
		if err != nil {
			continue
		}
		newPath, err := vfs.NewPath(change.To.Name)
		if err != nil {
			continue
		}
		renames[oldPath] = newPath
	}
	return renames, nil
}

// buildTree writes every file in v as a git blob plus the nested tree
// objects needed to hold them, and returns the resulting root tree.
func buildTree(st storer.EncodedObjectStorer, v *vfs.VFS) (*object.Tree, error) {
	root := newTreeNode()

	for _, p := range v.Paths() {
		content, _ := v.GetPath(p)

		obj := st.NewEncodedObject()
		obj.SetType(plumbing.BlobObject)
		w, err := obj.Writer()
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			_ = w.Close()
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		hash, err := st.SetEncodedObject(obj)
		if err != nil {
			return nil, err
		}

		root.insert(strings.Split(string(p), "/"), hash)
	}

	rootHash, err := root.write(st)
	if err != nil {
		return nil, err
	}
	return object.GetTree(st, rootHash)
}

// treeNode is an in-memory staging area for a git tree before it is encoded
// and written to the object store, one level of directory nesting at a time.
type treeNode struct {
	files map[string]plumbing.Hash
	dirs  map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{files: map[string]plumbing.Hash{}, dirs: map[string]*treeNode{}}
}

func (n *treeNode) insert(parts []string, hash plumbing.Hash) {
	if len(parts) == 1 {
		n.files[parts[0]] = hash
		return
	}
	child, ok := n.dirs[parts[0]]
	if !ok {
		child = newTreeNode()
		n.dirs[parts[0]] = child
	}
	child.insert(parts[1:], hash)
}

func (n *treeNode) write(st storer.EncodedObjectStorer) (plumbing.Hash, error) {
	names := make([]string, 0, len(n.files)+len(n.dirs))
	for name := range n.files {
		names = append(names, name)
	}
	for name := range n.dirs {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := &object.Tree{}
	for _, name := range names {
		if hash, ok := n.files[name]; ok {
			tree.Entries = append(tree.Entries, object.TreeEntry{Name: name, Mode: filemode.Regular, Hash: hash})
			continue
		}
		childHash, err := n.dirs[name].write(st)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		tree.Entries = append(tree.Entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: childHash})
	}

	obj := st.NewEncodedObject()
	obj.SetType(plumbing.TreeObject)
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return st.SetEncodedObject(obj)
}
