package merge

import (
	"bytes"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/cyanprint/cyancore/internal/vfs"
)

// TextMerger is the default Merger. It performs a line-level three-way
// merge built on go-difflib's sequence matcher — the same matching-block
// primitive classic difflib-based merge3 implementations use — and falls
// back to a whole-file Git-style conflict block when any hunk cannot be
// reconciled. Binary content (non-UTF-8) is merged byte-wise only when
// local equals incoming; any other combination conflicts outright.
type TextMerger struct {
	Logger *slog.Logger
}

// Merge implements Merger.
func (m *TextMerger) Merge(base, local, incoming *vfs.VFS) (*vfs.VFS, []Conflict, error) {
	result := vfs.New()
	var conflicts []Conflict

	for _, p := range incoming.Paths() {
		incomingContent, _ := incoming.GetPath(p)

		localContent, inLocal := local.GetPath(p)
		if !inLocal {
			result.AddPath(p, incomingContent)
			continue
		}

		baseContent, _ := base.GetPath(p) // absent => nil, treated as empty

		merged, conflicted := mergeFile(baseContent, localContent, incomingContent)
		result.AddPath(p, merged)
		if conflicted {
			conflicts = append(conflicts, Conflict{Path: p})
			logConflict(m.Logger, p)
		}
	}

	return result, conflicts, nil
}

func mergeFile(base, local, incoming []byte) (merged []byte, conflict bool) {
	if bytes.Equal(local, incoming) {
		out := make([]byte, len(local))
		copy(out, local)
		return out, false
	}

	if !utf8.Valid(base) || !utf8.Valid(local) || !utf8.Valid(incoming) {
		return []byte(conflictMarkers(string(local), string(base), string(incoming))), true
	}

	mergedText, ok := merge3(string(base), string(local), string(incoming))
	if !ok {
		return []byte(conflictMarkers(string(local), string(base), string(incoming))), true
	}
	return []byte(mergedText), false
}

// syncPoint is a base line index that is unchanged (textually identical to
// base) in both the base->local and base->incoming comparisons, alongside
// its corresponding index in each of those sequences. Consecutive sync
// points bracket a hunk that must be resolved independently.
type syncPoint struct {
	base, local, incoming int
}

// merge3 performs the line-level diff3 merge. ok is false the moment any
// bracketed hunk cannot be resolved cleanly; the caller discards the partial
// text and falls back to a whole-file conflict block, matching spec §4.4's
// observable contract.
func merge3(base, local, incoming string) (result string, ok bool) {
	// Split keeping each "\n"; unlike difflib.SplitLines, no newline is
	// appended to the final line, so joining the lines restores the input.
	splitLines := func(s string) []string {
		lines := strings.SplitAfter(s, "\n")
		if lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		return lines
	}
	baseLines := splitLines(base)
	localLines := splitLines(local)
	incomingLines := splitLines(incoming)

	anchors := syncAnchors(baseLines, localLines, incomingLines)

	var out strings.Builder
	prevBase, prevLocal, prevIncoming := 0, 0, 0

	resolve := func(baseEnd, localEnd, incomingEnd int) bool {
		return resolveSegment(&out,
			baseLines[prevBase:baseEnd],
			localLines[prevLocal:localEnd],
			incomingLines[prevIncoming:incomingEnd])
	}

	for _, anc := range anchors {
		if !resolve(anc.base, anc.local, anc.incoming) {
			return "", false
		}
		out.WriteString(baseLines[anc.base])
		prevBase, prevLocal, prevIncoming = anc.base+1, anc.local+1, anc.incoming+1
	}
	if !resolve(len(baseLines), len(localLines), len(incomingLines)) {
		return "", false
	}

	return out.String(), true
}

// resolveSegment decides the content of one hunk bracketed by two sync
// points (or the file boundaries). It returns false, writing nothing, if the
// hunk is a genuine conflict.
func resolveSegment(out *strings.Builder, base, local, incoming []string) bool {
	baseStr := strings.Join(base, "")
	localStr := strings.Join(local, "")
	incomingStr := strings.Join(incoming, "")

	switch {
	case localStr == baseStr && incomingStr == baseStr:
		out.WriteString(baseStr)
	case localStr == baseStr:
		// Only incoming touched this hunk.
		out.WriteString(incomingStr)
	case incomingStr == baseStr:
		// Only local touched this hunk.
		out.WriteString(localStr)
	case localStr == incomingStr:
		// Both sides made the same edit.
		out.WriteString(localStr)
	default:
		return false
	}
	return true
}

// syncAnchors finds every base line index that is unchanged relative to both
// local and incoming, i.e. present in a matching block of both the
// base->local and base->incoming sequence comparisons at the same base
// index. These are the fixed points a diff3 merge walks between.
func syncAnchors(base, local, incoming []string) []syncPoint {
	blocksLocal := difflib.NewMatcher(base, local).GetMatchingBlocks()
	blocksIncoming := difflib.NewMatcher(base, incoming).GetMatchingBlocks()

	curLocal := newBlockCursor(blocksLocal)
	curIncoming := newBlockCursor(blocksIncoming)

	var anchors []syncPoint
	for i := 0; i < len(base); i++ {
		localIdx, okLocal := curLocal.lookup(i)
		incomingIdx, okIncoming := curIncoming.lookup(i)
		if okLocal && okIncoming {
			anchors = append(anchors, syncPoint{base: i, local: localIdx, incoming: incomingIdx})
		}
	}
	return anchors
}

// blockCursor walks a monotonically increasing list of matching blocks,
// answering "what does base index i map to in the other sequence, if
// anything" for a strictly increasing sequence of queries.
type blockCursor struct {
	blocks []difflib.Match
	idx    int
}

func newBlockCursor(blocks []difflib.Match) *blockCursor {
	return &blockCursor{blocks: blocks}
}

func (c *blockCursor) lookup(i int) (int, bool) {
	for c.idx < len(c.blocks) {
		b := c.blocks[c.idx]
		if i < b.A {
			return 0, false
		}
		if i < b.A+b.Size {
			return b.B + (i - b.A), true
		}
		c.idx++
	}
	return 0, false
}
