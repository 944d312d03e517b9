package history

import (
	"image"
	"strings"
	"testing"

	"github.com/example/retouch/internal/adjust"
)

func snap(lum float64) Snapshot {
	var p adjust.Params
	p.Luminance = lum
	return Snapshot{Params: p}
}

func TestPushSkipsDuplicates(t *testing.T) {
	h := New(0)
	if !h.Push(snap(0)) {
		t.Fatal("first push rejected")
	}
	if h.Push(snap(0)) {
		t.Fatal("duplicate push accepted")
	}
	if h.Len() != 1 {
		t.Fatalf("len = %d, want 1", h.Len())
	}
	cur, _ := h.Current()
	if !strings.HasPrefix(cur.ID, SnapshotPrefix+"_") {
		t.Fatalf("snapshot id %q lacks prefix", cur.ID)
	}
}

func TestEqualIgnoresID(t *testing.T) {
	a, b := snap(3), snap(3)
	a.ID, b.ID = NewID(), NewID()
	if !a.Equal(b) {
		t.Fatal("snapshots differing only by id should be equal")
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b.Source = img
	if a.Equal(b) {
		t.Fatal("different sources compared equal")
	}
	a.Source = img
	a.Paint = []byte{1}
	if a.Equal(b) {
		t.Fatal("different paint compared equal")
	}
}

func TestUndoRedoBounds(t *testing.T) {
	h := New(0)
	for i := 0; i < 5; i++ {
		h.Push(snap(float64(i)))
	}
	for i := 0; i < 10; i++ {
		h.Undo()
	}
	if h.Index() != 0 {
		t.Fatalf("index after excess undo = %d, want 0", h.Index())
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo past the oldest entry reported success")
	}
	for i := 0; i < 10; i++ {
		h.Redo()
	}
	if h.Index() != 4 {
		t.Fatalf("index after excess redo = %d, want 4", h.Index())
	}
	cur, _ := h.Current()
	if cur.Params.Luminance != 4 {
		t.Fatalf("current luminance = %v, want 4", cur.Params.Luminance)
	}
}

func TestUndoThenRedoRestores(t *testing.T) {
	h := New(0)
	for i := 0; i < 4; i++ {
		h.Push(snap(float64(i)))
	}
	before, _ := h.Current()
	for i := 0; i < 3; i++ {
		h.Undo()
	}
	for i := 0; i < 3; i++ {
		h.Redo()
	}
	after, _ := h.Current()
	if !before.Equal(after) || before.ID != after.ID {
		t.Fatalf("redo restored %+v, want %+v", after, before)
	}
}

func TestPushTruncatesRedoBranch(t *testing.T) {
	h := New(0)
	h.Push(snap(1))
	h.Push(snap(2))
	h.Push(snap(3))
	h.Undo()
	h.Undo()
	h.Push(snap(9))
	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}
	if h.CanRedo() {
		t.Fatal("redo branch survived a push")
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo succeeded after truncation")
	}
	cur, _ := h.Current()
	if cur.Params.Luminance != 9 {
		t.Fatalf("current = %v, want 9", cur.Params.Luminance)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	h := New(3)
	for i := 1; i <= 5; i++ {
		h.Push(snap(float64(i)))
	}
	if h.Len() != 3 || h.Index() != 2 {
		t.Fatalf("len=%d index=%d, want 3 and 2", h.Len(), h.Index())
	}
	h.Undo()
	h.Undo()
	oldest, _ := h.Current()
	if oldest.Params.Luminance != 3 {
		t.Fatalf("oldest kept = %v, want 3", oldest.Params.Luminance)
	}
}

func TestZeroValueStack(t *testing.T) {
	var h Stack
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty stack reports undo/redo")
	}
	h.Push(snap(1))
	if h.Index() != 0 || h.Len() != 1 {
		t.Fatalf("index=%d len=%d", h.Index(), h.Len())
	}
	h.Reset()
	if _, ok := h.Current(); ok {
		t.Fatal("reset stack still has a current entry")
	}
}
