// Package ring holds the engraving configuration model: ring sizes, the
// two text lines, and everything derived from them (line-count mode,
// radii, vertical text placement).
package ring

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnknownSize is returned when a size index has no diameter entry.
var ErrUnknownSize = errors.New("unknown ring size")

// SizeIndex is an enumerated ring diameter class.
type SizeIndex int

// DefaultSize is the size selected when nothing else is known.
const DefaultSize SizeIndex = 15

// diameters maps size index to inner diameter in millimetres
// (Japanese/HK ring size scale).
var diameters = map[SizeIndex]float32{
	5:  14.5,
	6:  14.8,
	7:  15.2,
	8:  15.5,
	9:  15.8,
	10: 16.1,
	11: 16.5,
	12: 16.8,
	13: 17.1,
	14: 17.5,
	15: 17.8,
	16: 18.1,
	17: 18.5,
	18: 18.8,
	19: 19.1,
	20: 19.4,
	21: 19.8,
	22: 20.1,
	23: 20.4,
	24: 20.8,
	25: 21.1,
}

// Valid reports whether the size has a known diameter.
func (s SizeIndex) Valid() bool {
	_, ok := diameters[s]
	return ok
}

// Diameter returns the inner diameter for the size in millimetres.
func Diameter(s SizeIndex) (float32, bool) {
	d, ok := diameters[s]
	return d, ok
}

// Sizes returns all known sizes in ascending order.
func Sizes() []SizeIndex {
	out := make([]SizeIndex, 0, len(diameters))
	for s := range diameters {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Step returns the neighbouring known size delta steps away, clamped to
// the ends of the table. Unknown sizes step from DefaultSize.
func (s SizeIndex) Step(delta int) SizeIndex {
	sizes := Sizes()
	idx := sort.Search(len(sizes), func(i int) bool { return sizes[i] >= s })
	if idx == len(sizes) || sizes[idx] != s {
		idx = sort.Search(len(sizes), func(i int) bool { return sizes[i] >= DefaultSize })
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sizes) {
		idx = len(sizes) - 1
	}
	return sizes[idx]
}

// Mode is the line-count mode of a configuration.
type Mode int

const (
	ModeOneLine Mode = iota
	ModeTwoLine
)

func (m Mode) String() string {
	if m == ModeTwoLine {
		return "two-line"
	}
	return "one-line"
}

// Line identifies one of the two engraving lines.
type Line int

const (
	Line1 Line = 1
	Line2 Line = 2
)

func (l Line) String() string {
	return fmt.Sprintf("line%d", int(l))
}

// Configuration is the user-editable engraving state. It is a value type;
// copies are immutable snapshots.
type Configuration struct {
	Line1 string
	Line2 string
	Size  SizeIndex
}

// DefaultConfiguration returns an empty configuration at the default size.
func DefaultConfiguration() Configuration {
	return Configuration{Size: DefaultSize}
}

// Normalize returns the configuration with both lines in NFC form and
// trailing newlines removed.
func (c Configuration) Normalize() Configuration {
	c.Line1 = norm.NFC.String(strings.TrimRight(c.Line1, "\r\n"))
	c.Line2 = norm.NFC.String(strings.TrimRight(c.Line2, "\r\n"))
	return c
}

// Text returns the text of the given line.
func (c Configuration) Text(l Line) string {
	if l == Line2 {
		return c.Line2
	}
	return c.Line1
}

// WithText returns a copy with the given line replaced.
func (c Configuration) WithText(l Line, text string) Configuration {
	if l == Line2 {
		c.Line2 = text
	} else {
		c.Line1 = text
	}
	return c
}

// ModeOf derives the line-count mode. Both lines must come from the same
// snapshot.
func ModeOf(c Configuration) Mode {
	if c.Line1 != "" && c.Line2 != "" {
		return ModeTwoLine
	}
	return ModeOneLine
}

// ShellKey identifies one ring shell variant.
type ShellKey struct {
	Size SizeIndex
	Mode Mode
}

func (k ShellKey) String() string {
	return fmt.Sprintf("%d/%s", int(k.Size), k.Mode)
}

// KeyOf returns the shell key for a configuration.
func KeyOf(c Configuration) ShellKey {
	return ShellKey{Size: c.Size, Mode: ModeOf(c)}
}
