// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// RingVertexShader transforms ring and text meshes into world and clip space.
//
//go:embed ring.vert
var RingVertexShader string

// RingFragmentShader shades ring meshes with Phong lighting, an
// equirectangular environment reflection, and linear fog.
//
//go:embed ring.frag
var RingFragmentShader string
