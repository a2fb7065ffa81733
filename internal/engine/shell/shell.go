// Package shell builds the ring body that the engraved text sits on: the
// metal band and the dark cylinder that shows through behind the letters.
package shell

import (
	"fmt"

	"github.com/Faultbox/wordsring/internal/engine/mesh"
	"github.com/Faultbox/wordsring/internal/ring"
)

const (
	// InnerSegments is the radial resolution of the dark inner cylinder.
	InnerSegments = 32
	// BandSegments is the radial resolution of the procedural metal band.
	BandSegments = 96

	twoLineHeight = 6
	oneLineHeight = 3.6

	rimWidth    = 0.6
	rimOverhang = 0.55
	floorInset  = 0.1
)

// Shell is the mesh pair for one size and line mode.
type Shell struct {
	Key   ring.ShellKey
	Band  *mesh.Mesh
	Inner *mesh.Mesh
}

// ChannelHeight returns the height of the engraving channel for a mode.
func ChannelHeight(mode ring.Mode) float32 {
	if mode == ring.ModeTwoLine {
		return twoLineHeight
	}
	return oneLineHeight
}

// Generate derives a shell procedurally from the ring radii.
func Generate(key ring.ShellKey, dims ring.Dimensions) (*Shell, error) {
	if dims.Inner <= 0 || dims.Band <= dims.Inner || dims.Engrave <= dims.Band {
		return nil, fmt.Errorf("generate shell %s: invalid dimensions %+v", key, dims)
	}
	return &Shell{
		Key:   key,
		Band:  mesh.Lathe(bandProfile(dims, ChannelHeight(key.Mode)), BandSegments),
		Inner: InnerCylinder(dims, key.Mode),
	}, nil
}

// FromBand wraps a band mesh loaded from disk with the generated inner cylinder.
func FromBand(key ring.ShellKey, dims ring.Dimensions, band *mesh.Mesh) *Shell {
	return &Shell{
		Key:   key,
		Band:  band,
		Inner: InnerCylinder(dims, key.Mode),
	}
}

// InnerCylinder is the open-ended dark band behind the text.
func InnerCylinder(dims ring.Dimensions, mode ring.Mode) *mesh.Mesh {
	h := ChannelHeight(mode) / 2
	return mesh.Lathe([][2]float32{{dims.Band, -h}, {dims.Band, h}}, InnerSegments)
}

// bandProfile walks the band cross-section counter-clockwise in the
// (radius, y) plane: a channel between two rims, its floor just below the
// dark cylinder.
func bandProfile(dims ring.Dimensions, channel float32) [][2]float32 {
	outer := dims.Engrave + rimOverhang
	floor := dims.Band - floorInset
	h := channel / 2
	H := h + rimWidth

	return [][2]float32{
		{dims.Inner, -H},
		{outer, -H},
		{outer, -h},
		{floor, -h},
		{floor, h},
		{outer, h},
		{outer, H},
		{dims.Inner, H},
		{dims.Inner, -H},
	}
}

// FileName is the legacy JSON file name for a shell key.
func FileName(key ring.ShellKey) string {
	suffix := ""
	if key.Mode == ring.ModeOneLine {
		suffix = "s"
	}
	return fmt.Sprintf("wordsring%d%s.json", int(key.Size), suffix)
}
