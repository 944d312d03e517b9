// Package history implements the editor's linear undo stack. Each entry is a
// self-contained snapshot; pushing after an undo discards the redo branch.
package history

import (
	"bytes"
	"image"
	"log"

	"go.jetify.com/typeid/v2"

	"github.com/example/retouch/internal/adjust"
)

// SnapshotPrefix is the typeid prefix of snapshot ids.
const SnapshotPrefix = "snap"

// Snapshot holds everything needed to restore the rendered output.
type Snapshot struct {
	// ID identifies the snapshot in logs. It is not part of equality.
	ID        string
	Params    adjust.Params
	Transform adjust.Transform
	Hardness  float64
	Opacity   float64
	// Paint is the PNG encoded paint surface, nil when blank.
	Paint []byte
	// Source is the base image. Base images are replaced, never mutated, so
	// pointer identity tells whether two snapshots share a base.
	Source *image.RGBA
}

// NewID returns a fresh snapshot id.
func NewID() string {
	return typeid.MustGenerate(SnapshotPrefix).String()
}

// Equal compares every field except ID.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Params == o.Params &&
		s.Transform == o.Transform &&
		s.Hardness == o.Hardness &&
		s.Opacity == o.Opacity &&
		s.Source == o.Source &&
		bytes.Equal(s.Paint, o.Paint)
}

// Stack is a bounded undo/redo stack. The zero value is unbounded.
type Stack struct {
	entries []Snapshot
	index   int
	limit   int
}

// New returns an empty stack keeping at most limit entries; limit <= 0 means
// no bound.
func New(limit int) *Stack {
	return &Stack{index: -1, limit: limit}
}

// Push records s unless it equals the current entry. Entries after the
// current index are discarded. Returns whether s was recorded.
func (h *Stack) Push(s Snapshot) bool {
	if len(h.entries) == 0 {
		h.index = -1
	}
	if cur, ok := h.Current(); ok && cur.Equal(s) {
		return false
	}
	if s.ID == "" {
		s.ID = NewID()
	}
	h.entries = append(h.entries[:h.index+1], s)
	h.index = len(h.entries) - 1
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]Snapshot(nil), h.entries[drop:]...)
		h.index -= drop
	}
	log.Printf("history: push %s (%d/%d)", s.ID, h.index+1, len(h.entries))
	return true
}

// Undo steps back one entry and returns it. It is a no-op at the oldest
// entry.
func (h *Stack) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo steps forward one entry and returns it. It is a no-op at the newest
// entry.
func (h *Stack) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.index++
	return h.entries[h.index], true
}

// Current returns the entry at the index.
func (h *Stack) Current() (Snapshot, bool) {
	if h.index < 0 || h.index >= len(h.entries) {
		return Snapshot{}, false
	}
	return h.entries[h.index], true
}

func (h *Stack) CanUndo() bool { return h.index > 0 }
func (h *Stack) CanRedo() bool { return h.index >= 0 && h.index < len(h.entries)-1 }

// Index is the position of the current entry, -1 when empty.
func (h *Stack) Index() int { return h.index }

// Len is the number of stored entries.
func (h *Stack) Len() int { return len(h.entries) }

// Reset empties the stack.
func (h *Stack) Reset() {
	h.entries = nil
	h.index = -1
}
