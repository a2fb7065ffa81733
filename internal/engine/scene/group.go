// Package scene holds the meshes on screen and keeps them in step with
// rebuild results.
package scene

import (
	"github.com/Faultbox/wordsring/internal/engine/mesh"
)

// Material selects how a node is shaded.
type Material int

const (
	// MaterialSilver is the reflective metal of the band and the letters.
	MaterialSilver Material = iota
	// MaterialDark is the matte band behind the letters.
	MaterialDark
)

func (m Material) String() string {
	if m == MaterialDark {
		return "dark"
	}
	return "silver"
}

// Node is one mesh placed in the group.
type Node struct {
	Name     string
	Mesh     *mesh.Mesh
	Offset   [3]float32
	Material Material
}

// Group is the ordered set of meshes the renderer draws. It is owned by
// the event loop goroutine and is not safe for concurrent use.
type Group struct {
	nodes   []*Node
	version uint64
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Attach adds n unless it is already attached.
func (g *Group) Attach(n *Node) {
	if n == nil || g.index(n) >= 0 {
		return
	}
	g.nodes = append(g.nodes, n)
	g.version++
}

// Detach removes n and reports whether it was attached.
func (g *Group) Detach(n *Node) bool {
	i := g.index(n)
	if i < 0 {
		return false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	g.version++
	return true
}

// Swap replaces old with n in one step, keeping draw order. A nil or
// detached old attaches n; a nil n detaches old.
func (g *Group) Swap(old, n *Node) {
	if n == nil {
		g.Detach(old)
		return
	}
	i := g.index(old)
	if i < 0 {
		g.Attach(n)
		return
	}
	if j := g.index(n); j >= 0 && j != i {
		g.nodes = append(g.nodes[:j], g.nodes[j+1:]...)
		if j < i {
			i--
		}
	}
	g.nodes[i] = n
	g.version++
}

// Nodes returns the attached nodes in draw order.
func (g *Group) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Find returns the attached node with the given name.
func (g *Group) Find(name string) *Node {
	for _, n := range g.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Len returns the number of attached nodes.
func (g *Group) Len() int {
	return len(g.nodes)
}

// Version increases on every change; renderers compare it to decide when
// to re-upload.
func (g *Group) Version() uint64 {
	return g.version
}

// Bounds returns the box around every attached mesh including offsets.
func (g *Group) Bounds() (mesh.Bounds, bool) {
	var out mesh.Bounds
	found := false
	for _, n := range g.nodes {
		if n.Mesh.IsEmpty() {
			continue
		}
		b := n.Mesh.Bounds
		for axis := 0; axis < 3; axis++ {
			lo, hi := b.Min[axis]+n.Offset[axis], b.Max[axis]+n.Offset[axis]
			if !found || lo < out.Min[axis] {
				out.Min[axis] = lo
			}
			if !found || hi > out.Max[axis] {
				out.Max[axis] = hi
			}
		}
		found = true
	}
	return out, found
}

func (g *Group) index(n *Node) int {
	if n == nil {
		return -1
	}
	for i, m := range g.nodes {
		if m == n {
			return i
		}
	}
	return -1
}
