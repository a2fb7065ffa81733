// Package text turns a line of text into a flat extruded mesh lying in the
// XY plane, centred on the origin and extruded along Z.
package text

import (
	"fmt"
	"os"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/sfnt"
)

// DefaultFont returns the embedded Go Bold face.
func DefaultFont() (*sfnt.Font, error) {
	f, err := sfnt.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	return f, nil
}

// LoadFontFile parses a TrueType or OpenType file from disk.
func LoadFontFile(path string) (*sfnt.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return f, nil
}
