package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wordsring/internal/engine/mesh"
	"github.com/Faultbox/wordsring/internal/engine/shell"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/internal/ring"
)

// Node names used by the composer.
const (
	NodeBand  = "band"
	NodeInner = "inner"
)

// LineNodeName returns the node name of a text line.
func LineNodeName(l ring.Line) string {
	return l.String()
}

// Composer keeps a group in sync with rebuild results. Each new mesh
// replaces its predecessor in a single swap; the old node is dropped.
type Composer struct {
	group *Group
	log   *zap.Logger

	band  *Node
	inner *Node
	lines map[ring.Line]*Node
	shell *shell.Shell
}

// NewComposer creates a composer over g.
func NewComposer(g *Group) *Composer {
	return &Composer{
		group: g,
		log:   logger.Named("scene"),
		lines: make(map[ring.Line]*Node),
	}
}

// Group returns the composed group.
func (c *Composer) Group() *Group {
	return c.group
}

// ShowShell swaps in the band and inner cylinder of s.
func (c *Composer) ShowShell(s *shell.Shell) {
	band := &Node{Name: NodeBand, Mesh: s.Band, Material: MaterialSilver}
	inner := &Node{Name: NodeInner, Mesh: s.Inner, Material: MaterialDark}

	c.group.Swap(c.inner, inner)
	c.group.Swap(c.band, band)
	c.band, c.inner, c.shell = band, inner, s
	c.log.Debug("shell attached", zap.Stringer("key", s.Key))
}

// Shell returns the displayed shell, if any.
func (c *Composer) Shell() *shell.Shell {
	return c.shell
}

// ShowLine swaps in the mesh for a text line.
func (c *Composer) ShowLine(l ring.Line, m *mesh.Mesh, offsetY float32) {
	n := &Node{
		Name:     LineNodeName(l),
		Mesh:     m,
		Offset:   [3]float32{0, offsetY, 0},
		Material: MaterialSilver,
	}
	c.group.Swap(c.lines[l], n)
	c.lines[l] = n
	c.log.Debug("line attached", zap.Stringer("line", l), zap.Int("triangles", m.TriangleCount()))
}

// ClearLine detaches a text line.
func (c *Composer) ClearLine(l ring.Line) {
	if n, ok := c.lines[l]; ok {
		c.group.Detach(n)
		delete(c.lines, l)
		c.log.Debug("line detached", zap.Stringer("line", l))
	}
}

// Line returns the node of a displayed line.
func (c *Composer) Line(l ring.Line) (*Node, bool) {
	n, ok := c.lines[l]
	return n, ok
}
