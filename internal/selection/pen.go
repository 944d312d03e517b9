package selection

import (
	"slices"

	"seehuhn.de/go/geom/path"

	"github.com/example/retouch/internal/geom"
)

// DefaultCloseRadius is how close a click must land to the first anchor to
// close a pen path.
const DefaultCloseRadius = 8

// PenNode is an anchor with its incoming and outgoing control handles.
// Handles equal to the anchor mean a sharp corner.
type PenNode struct {
	Anchor, In, Out geom.Point
}

// PenState is the pen tool's own sub state.
type PenState int

const (
	PenPlacingFirst PenState = iota
	PenPlacing
	PenDraggingHandle
)

func (s PenState) String() string {
	switch s {
	case PenPlacing:
		return "placing"
	case PenDraggingHandle:
		return "dragging-handle"
	}
	return "placing-first"
}

// Pen builds a Bézier path one anchor at a time.
type Pen struct {
	CloseRadius float64
	Steps       int

	nodes []PenNode
	state PenState
}

// Nodes returns a copy of the placed nodes.
func (p *Pen) Nodes() []PenNode { return slices.Clone(p.nodes) }

func (p *Pen) State() PenState { return p.state }

// Empty reports whether no anchor has been placed.
func (p *Pen) Empty() bool { return len(p.nodes) == 0 }

func (p *Pen) closeRadius() float64 {
	if p.CloseRadius > 0 {
		return p.CloseRadius
	}
	return DefaultCloseRadius
}

// CanClose reports whether a press at pt would close the path.
func (p *Pen) CanClose(pt geom.Point) bool {
	return len(p.nodes) >= 2 && geom.Dist(pt, p.nodes[0].Anchor) <= p.closeRadius()
}

// Press places a new anchor at pt, or reports closed when pt lands on the
// first anchor of a path with at least two nodes. The caller takes the
// flattened outline with Flatten and then calls Cancel to start over.
func (p *Pen) Press(pt geom.Point) (closed bool) {
	if p.CanClose(pt) {
		return true
	}
	p.nodes = append(p.nodes, PenNode{Anchor: pt, In: pt, Out: pt})
	p.state = PenDraggingHandle
	return false
}

// Drag moves the out handle of the node being placed. Unless breakSymmetry is
// set the in handle mirrors it through the anchor. Earlier nodes are never
// touched.
func (p *Pen) Drag(pt geom.Point, breakSymmetry bool) {
	if p.state != PenDraggingHandle || len(p.nodes) == 0 {
		return
	}
	n := &p.nodes[len(p.nodes)-1]
	n.Out = pt
	if !breakSymmetry {
		n.In = n.Anchor.Sub(pt.Sub(n.Anchor))
	}
}

// Release ends the handle drag.
func (p *Pen) Release() {
	if len(p.nodes) > 0 {
		p.state = PenPlacing
	}
}

// Cancel discards the path.
func (p *Pen) Cancel() {
	p.nodes = nil
	p.state = PenPlacingFirst
}

func (p *Pen) steps() int {
	if p.Steps > 0 {
		return p.Steps
	}
	return geom.DefaultBezierSteps
}

// Flatten samples the closed path into a polygon.
func (p *Pen) Flatten() []geom.Point {
	if len(p.nodes) == 0 {
		return nil
	}
	pts := []geom.Point{p.nodes[0].Anchor}
	seg := func(a, b PenNode) {
		curve := geom.ApproximateCubicBezier(a.Anchor, a.Out, b.In, b.Anchor, p.steps())
		pts = append(pts, curve[1:]...)
	}
	for i := 1; i < len(p.nodes); i++ {
		seg(p.nodes[i-1], p.nodes[i])
	}
	if len(p.nodes) > 1 {
		seg(p.nodes[len(p.nodes)-1], p.nodes[0])
		pts = pts[:len(pts)-1]
	}
	return pts
}

// Path returns the open path through the placed nodes for drawing.
func (p *Pen) Path() *path.Data {
	d := &path.Data{}
	if len(p.nodes) == 0 {
		return d
	}
	d.MoveTo(p.nodes[0].Anchor)
	for i := 1; i < len(p.nodes); i++ {
		a, b := p.nodes[i-1], p.nodes[i]
		d.CubeTo(a.Out, b.In, b.Anchor)
	}
	return d
}
