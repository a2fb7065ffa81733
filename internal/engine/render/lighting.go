// Package render draws the composed ring scene with OpenGL.
package render

import (
	"github.com/Faultbox/wordsring/internal/engine/scene"
	"github.com/Faultbox/wordsring/pkg/math"
)

// Lighting holds the scene-wide light, fog, and clear color.
type Lighting struct {
	LightPos   [3]float32
	LightColor [3]float32
	Ambient    [3]float32

	FogNear  float32
	FogFar   float32
	FogColor [3]float32

	Background [4]float32
}

// DefaultLighting is a single white light in front of the ring and black fog
// that swallows anything far behind it.
func DefaultLighting() Lighting {
	return Lighting{
		LightPos:   [3]float32{10, 0, 50},
		LightColor: [3]float32{1, 1, 1},
		Ambient:    [3]float32{0.25, 0.25, 0.25},
		FogNear:    55,
		FogFar:     150,
		FogColor:   [3]float32{0, 0, 0},
		Background: [4]float32{0, 0, 0, 1},
	}
}

type materialParams struct {
	color        [3]float32
	shininess    float32
	reflectivity float32
}

func materialFor(m scene.Material) materialParams {
	switch m {
	case scene.MaterialDark:
		// 0x474444
		return materialParams{
			color:     [3]float32{0x47 / 255.0, 0x44 / 255.0, 0x44 / 255.0},
			shininess: 30,
		}
	default:
		return materialParams{
			color:        [3]float32{1, 1, 1},
			shininess:    80,
			reflectivity: 1,
		}
	}
}

// nodeMatrix places a node: the turntable rotation applied after the
// node's own offset.
func nodeMatrix(model math.Mat4, n *scene.Node) math.Mat4 {
	return model.Mul(math.Translate(n.Offset[0], n.Offset[1], n.Offset[2]))
}
