package render_test

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/geometry"
	"github.com/plus3/helio/render"
)

// recorder is a mock backend that captures every state change and draw in
// order, so pass ordering and state discipline are assertable without a GPU.
type recorder struct {
	width, height int

	trace []string

	draws       []recordedDraw
	geometries  map[render.GeometryHandle]*geometry.Geometry
	released    []render.GeometryHandle
	texParams   []render.TextureParams
	texUploads  int
	texReleased []render.TextureHandle

	nextGeometry render.GeometryHandle
	nextTexture  render.TextureHandle

	failTextures   bool
	panicOnDraw    map[render.GeometryHandle]bool
	errorOnDraw    map[render.GeometryHandle]bool
	depthTest      bool
	depthWrite     bool
	blend          render.BlendMode
	cull           render.CullMode
	bias           bool
}

type recordedDraw struct {
	uniforms   render.Uniforms
	handle     render.GeometryHandle
	depthTest  bool
	depthWrite bool
	blend      render.BlendMode
	cull       render.CullMode
	bias       bool
}

func newRecorder() *recorder {
	return &recorder{
		width:       640,
		height:      480,
		geometries:  make(map[render.GeometryHandle]*geometry.Geometry),
		panicOnDraw: make(map[render.GeometryHandle]bool),
		errorOnDraw: make(map[render.GeometryHandle]bool),
		depthTest:   true,
		depthWrite:  true,
	}
}

func (r *recorder) Size() (int, int) { return r.width, r.height }

func (r *recorder) Clear(mgl32.Vec4) {
	r.trace = append(r.trace, "clear")
}

func (r *recorder) SetDepthTest(enabled bool) { r.depthTest = enabled }
func (r *recorder) SetDepthWrite(enabled bool) { r.depthWrite = enabled }
func (r *recorder) SetBlend(mode render.BlendMode) { r.blend = mode }
func (r *recorder) SetCull(mode render.CullMode) { r.cull = mode }
func (r *recorder) SetDepthBias(enabled bool) { r.bias = enabled }

func (r *recorder) UploadGeometry(g *geometry.Geometry) (render.GeometryHandle, error) {
	r.nextGeometry++
	r.geometries[r.nextGeometry] = g
	r.trace = append(r.trace, fmt.Sprintf("upload-geometry %s", g.ID))
	return r.nextGeometry, nil
}

func (r *recorder) ReleaseGeometry(h render.GeometryHandle) {
	r.released = append(r.released, h)
	delete(r.geometries, h)
}

func (r *recorder) UploadTexture(_ image.Image, params render.TextureParams) (render.TextureHandle, error) {
	if r.failTextures {
		return 0, errors.New("texture upload refused")
	}
	r.texUploads++
	r.texParams = append(r.texParams, params)
	r.nextTexture++
	return r.nextTexture, nil
}

func (r *recorder) ReleaseTexture(h render.TextureHandle) {
	r.texReleased = append(r.texReleased, h)
}

func (r *recorder) Draw(h render.GeometryHandle, u render.Uniforms) error {
	if r.panicOnDraw[h] {
		panic("backend draw blew up")
	}
	r.trace = append(r.trace, fmt.Sprintf("draw %s", u.Mode))
	r.draws = append(r.draws, recordedDraw{
		uniforms:   u,
		handle:     h,
		depthTest:  r.depthTest,
		depthWrite: r.depthWrite,
		blend:      r.blend,
		cull:       r.cull,
		bias:       r.bias,
	})
	if r.errorOnDraw[h] {
		return errors.New("draw rejected")
	}
	return nil
}

func (r *recorder) DrawSky(render.TextureHandle) error {
	r.trace = append(r.trace, "sky")
	return nil
}

func (r *recorder) Flush() {
	r.trace = append(r.trace, "flush")
}
