package render

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/wordsring/internal/engine/camera"
	"github.com/Faultbox/wordsring/internal/engine/mesh"
	"github.com/Faultbox/wordsring/internal/engine/render/shaders"
	"github.com/Faultbox/wordsring/internal/engine/scene"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/pkg/math"
)

type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// Renderer draws a scene group. GPU buffers follow the group: meshes are
// uploaded when first seen and released once no node references them.
type Renderer struct {
	Lighting Lighting

	program uint32
	u       uniforms
	envTex  uint32
	log     *zap.Logger

	meshes  map[*mesh.Mesh]*gpuMesh
	version uint64
	synced  bool
}

// NewRenderer compiles the ring shader. A GL context must be current.
func NewRenderer() (*Renderer, error) {
	program, err := CompileProgram(shaders.RingVertexShader, shaders.RingFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("ring shader: %w", err)
	}

	return &Renderer{
		Lighting: DefaultLighting(),
		program:  program,
		u: lookupUniforms(program,
			"uViewProj", "uModel", "uNormalMatrix",
			"uColor", "uShininess", "uReflectivity",
			"uCameraPos", "uLightPos", "uLightColor", "uAmbient",
			"uEnvMap", "uEnvEnabled",
			"uFogNear", "uFogFar", "uFogColor",
		),
		log:    logger.Named("render"),
		meshes: make(map[*mesh.Mesh]*gpuMesh),
	}, nil
}

// SetEnvironment uploads the equirectangular reflection map.
func (r *Renderer) SetEnvironment(img *image.RGBA) {
	if img == nil || len(img.Pix) == 0 {
		return
	}
	if r.envTex == 0 {
		gl.GenTextures(1, &r.envTex)
	}
	gl.BindTexture(gl.TEXTURE_2D, r.envTex)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	r.log.Debug("environment uploaded", zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
}

// Sync brings GPU buffers in line with the group. It is cheap when the
// group has not changed.
func (r *Renderer) Sync(g *scene.Group) {
	if r.synced && g.Version() == r.version {
		return
	}
	add, drop := syncPlan(r.meshes, g.Nodes())
	for _, m := range drop {
		r.release(r.meshes[m])
		delete(r.meshes, m)
	}
	for _, m := range add {
		r.meshes[m] = upload(m)
	}
	r.version, r.synced = g.Version(), true
	if len(add) > 0 || len(drop) > 0 {
		r.log.Debug("scene synced", zap.Int("uploaded", len(add)), zap.Int("released", len(drop)))
	}
}

// syncPlan lists meshes to upload and to release.
func syncPlan(have map[*mesh.Mesh]*gpuMesh, nodes []*scene.Node) (add, drop []*mesh.Mesh) {
	live := make(map[*mesh.Mesh]bool, len(nodes))
	for _, n := range nodes {
		if n.Mesh == nil || n.Mesh.IsEmpty() || live[n.Mesh] {
			continue
		}
		live[n.Mesh] = true
		if _, ok := have[n.Mesh]; !ok {
			add = append(add, n.Mesh)
		}
	}
	for m := range have {
		if !live[m] {
			drop = append(drop, m)
		}
	}
	return add, drop
}

func upload(m *mesh.Mesh) *gpuMesh {
	gm := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	vertexSize := int(unsafe.Sizeof(mesh.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return gm
}

func (r *Renderer) release(gm *gpuMesh) {
	if gm == nil {
		return
	}
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	gl.DeleteBuffers(1, &gm.ebo)
}

// Draw clears the current framebuffer and draws every node of g, rotated
// by model, as seen from cam.
func (r *Renderer) Draw(g *scene.Group, cam *camera.Camera, model math.Mat4, aspect float32) {
	r.Sync(g)

	bg := r.Lighting.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	// Lathed shells are open, so both faces must be shaded.
	gl.Disable(gl.CULL_FACE)

	gl.UseProgram(r.program)

	viewProj := cam.ViewProjection(aspect)
	gl.UniformMatrix4fv(r.u["uViewProj"], 1, false, viewProj.Ptr())

	l := r.Lighting
	gl.Uniform3f(r.u["uCameraPos"], cam.Position.X, cam.Position.Y, cam.Position.Z)
	gl.Uniform3f(r.u["uLightPos"], l.LightPos[0], l.LightPos[1], l.LightPos[2])
	gl.Uniform3f(r.u["uLightColor"], l.LightColor[0], l.LightColor[1], l.LightColor[2])
	gl.Uniform3f(r.u["uAmbient"], l.Ambient[0], l.Ambient[1], l.Ambient[2])
	gl.Uniform1f(r.u["uFogNear"], l.FogNear)
	gl.Uniform1f(r.u["uFogFar"], l.FogFar)
	gl.Uniform3f(r.u["uFogColor"], l.FogColor[0], l.FogColor[1], l.FogColor[2])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.envTex)
	gl.Uniform1i(r.u["uEnvMap"], 0)
	if r.envTex != 0 {
		gl.Uniform1i(r.u["uEnvEnabled"], 1)
	} else {
		gl.Uniform1i(r.u["uEnvEnabled"], 0)
	}

	for _, n := range g.Nodes() {
		gm, ok := r.meshes[n.Mesh]
		if !ok {
			continue
		}
		mat := materialFor(n.Material)
		gl.Uniform3f(r.u["uColor"], mat.color[0], mat.color[1], mat.color[2])
		gl.Uniform1f(r.u["uShininess"], mat.shininess)
		gl.Uniform1f(r.u["uReflectivity"], mat.reflectivity)

		m := nodeMatrix(model, n)
		normal := m.Mat3x3()
		gl.UniformMatrix4fv(r.u["uModel"], 1, false, m.Ptr())
		gl.UniformMatrix3fv(r.u["uNormalMatrix"], 1, false, &normal[0])

		gl.BindVertexArray(gm.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_INT, 0)
	}
	gl.BindVertexArray(0)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for m, gm := range r.meshes {
		r.release(gm)
		delete(r.meshes, m)
	}
	if r.envTex != 0 {
		gl.DeleteTextures(1, &r.envTex)
		r.envTex = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Viewport sets the GL viewport to the full drawable area.
func Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}
