// Package sceneio loads XML scene documents into the world using only the
// public entity, geometry and texture APIs. Malformed values degrade with a
// log entry instead of failing the whole document; only unparsable XML is an
// error.
package sceneio

import (
	"encoding/xml"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"

	"go.uber.org/zap"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/geometry"
	"github.com/plus3/helio/render"
	"github.com/plus3/helio/scene"
)

// node is the generic recursive element shape; the loader dispatches on the
// element name so unknown shapes can degrade instead of breaking decoding.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
}

// Result carries what a document defines besides entities.
type Result struct {
	Camera   *render.Camera
	Light    render.Light
	Entities []ecs.EntityID
}

// Loader populates a world from scene documents. The optional filesystem
// resolves texture attributes to image files; without it, texture attributes
// only name entries expected to be registered elsewhere.
type Loader struct {
	world    *ecs.World
	geos     *geometry.Library
	textures *render.TextureLibrary
	fsys     fs.FS
	log      *zap.Logger
}

// NewLoader creates a loader over the given world and resource libraries.
// fsys may be nil. A nil logger falls back to a no-op logger.
func NewLoader(world *ecs.World, geos *geometry.Library, textures *render.TextureLibrary, fsys fs.FS, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		world:    world,
		geos:     geos,
		textures: textures,
		fsys:     fsys,
		log:      log.Named("sceneio"),
	}
}

// Load parses one scene document and creates its entities. The returned
// Result holds the document's camera and light along with the created
// entity ids, in document order.
func (l *Loader) Load(r io.Reader) (*Result, error) {
	var root node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("sceneio: decode: %w", err)
	}
	if root.XMLName.Local != "scene" {
		return nil, fmt.Errorf("sceneio: root element is <%s>, want <scene>", root.XMLName.Local)
	}

	res := &Result{
		Camera: render.NewCamera(),
		Light:  render.NewLight(),
	}

	for _, child := range root.Nodes {
		switch child.XMLName.Local {
		case "camera":
			l.applyCamera(res.Camera, attrMap(child.Attrs))
		case "light":
			l.applyLight(&res.Light, attrMap(child.Attrs))
		default:
			l.loadEntity(child, 0, res)
		}
	}
	return res, nil
}

func (l *Loader) applyCamera(cam *render.Camera, attrs map[string]string) {
	cam.Position = vec3Attr(attrs, "position", cam.Position)
	if v, ok := attrs["yaw"]; ok {
		cam.Yaw = degToRad(floatVal(v, 0))
		cam.HasOrientation = true
	}
	if v, ok := attrs["pitch"]; ok {
		cam.Pitch = degToRad(floatVal(v, 0))
		cam.HasOrientation = true
	}
	if v, ok := attrs["fov"]; ok {
		cam.FOVY = degToRad(floatVal(v, 60))
	}
	cam.Near = floatAttr(attrs, "near", cam.Near)
	cam.Far = floatAttr(attrs, "far", cam.Far)
}

func (l *Loader) applyLight(light *render.Light, attrs map[string]string) {
	if v, ok := attrs["direction"]; ok {
		d := vec3Val(v, light.Direction)
		if d.Len() > 0 {
			light.Direction = d.Normalize()
		}
	}
	if v, ok := attrs["color"]; ok {
		light.Color = colorVal(v, light.Color)
	}
	light.Intensity = floatAttr(attrs, "intensity", light.Intensity)
	light.Ambient = floatAttr(attrs, "ambient", light.Ambient)
}

// loadEntity creates one entity (and, recursively, its children) from an
// element. Unknown shape elements degrade to a unit box.
func (l *Loader) loadEntity(n node, parent ecs.EntityID, res *Result) {
	attrs := attrMap(n.Attrs)

	id := l.world.CreateEntity()
	res.Entities = append(res.Entities, id)

	transform := scene.NewTransform()
	transform.Position = vec3Attr(attrs, "position", transform.Position)
	transform.Rotation = degVec3Attr(attrs, "rotation", transform.Rotation)
	transform.Scale = vec3Attr(attrs, "scale", transform.Scale)
	l.addComponent(id, transform)

	if n.XMLName.Local != "group" {
		geomID := l.resolveGeometry(n.XMLName.Local, attrs)
		mesh := scene.NewMesh(geomID)
		mesh.Visible = boolAttr(attrs, "visible", true)
		mesh.CastShadow = boolAttr(attrs, "cast-shadow", true)
		mesh.ReceiveShadow = boolAttr(attrs, "receive-shadow", true)
		l.addComponent(id, mesh)
		l.addComponent(id, l.buildMaterial(attrs))
	}

	if name, ok := attrs["name"]; ok {
		l.addComponent(id, &scene.Tag{Name: name})
	}
	l.attachMotion(id, attrs)
	l.attachAnimation(id, attrs)

	if parent != 0 {
		scene.SetParent(l.world, id, parent)
	}

	for _, child := range n.Nodes {
		l.loadEntity(child, id, res)
	}
}

// resolveGeometry returns the geometry id for a shape element, creating the
// primitive on first use. Identical parameterizations share one entry.
func (l *Loader) resolveGeometry(elem string, attrs map[string]string) string {
	switch elem {
	case "box":
		size := vec3Attr(attrs, "size", unitVec3())
		gid := fmt.Sprintf("box-%gx%gx%g", size.X(), size.Y(), size.Z())
		if l.geos.Get(gid) == nil {
			l.geos.CreateBox(gid, size.X(), size.Y(), size.Z())
		}
		return gid
	case "sphere":
		radius := floatAttr(attrs, "radius", 0.5)
		segments := intAttr(attrs, "segments", 16)
		gid := fmt.Sprintf("sphere-%g-%d", radius, segments)
		if l.geos.Get(gid) == nil {
			l.geos.CreateSphere(gid, radius, segments)
		}
		return gid
	case "cylinder":
		radius := floatAttr(attrs, "radius", 0.5)
		height := floatAttr(attrs, "height", 1)
		segments := intAttr(attrs, "radial-segments", 16)
		gid := fmt.Sprintf("cylinder-%g-%g-%d", radius, height, segments)
		if l.geos.Get(gid) == nil {
			l.geos.CreateCylinder(gid, radius, height, segments)
		}
		return gid
	case "plane":
		size := vec3Attr(attrs, "size", unitVec3())
		gid := fmt.Sprintf("plane-%gx%g", size.X(), size.Z())
		if l.geos.Get(gid) == nil {
			l.geos.CreatePlane(gid, size.X(), size.Z())
		}
		return gid
	case "mesh":
		// Weak reference; dangling ids render nothing.
		return attrs["geometry"]
	default:
		l.log.Warn("unknown shape element, using unit box", zap.String("element", elem))
		if l.geos.Get("box-1x1x1") == nil {
			l.geos.CreateBox("box-1x1x1", 1, 1, 1)
		}
		return "box-1x1x1"
	}
}

func (l *Loader) buildMaterial(attrs map[string]string) *scene.Material {
	m := scene.NewMaterial()
	if v, ok := attrs["color"]; ok {
		m.BaseColor = colorVal(v, m.BaseColor)
	}
	m.Opacity = floatAttr(attrs, "opacity", m.Opacity)
	m.Transparent = boolAttr(attrs, "transparent", false)
	m.Metalness = floatAttr(attrs, "metalness", m.Metalness)
	m.Roughness = floatAttr(attrs, "roughness", m.Roughness)
	if v, ok := attrs["emissive"]; ok {
		m.Emissive = colorVal(v, m.Emissive)
		m.EmissiveIntensity = 1
	}
	m.EmissiveIntensity = floatAttr(attrs, "emissive-intensity", m.EmissiveIntensity)
	m.DoubleSided = boolAttr(attrs, "double-sided", false)

	switch {
	case boolAttr(attrs, "sky", false):
		m.Mode = scene.ShadeSky
	case boolAttr(attrs, "grass", false):
		m.Mode = scene.ShadeGrass
	case boolAttr(attrs, "shadow", false):
		m.Mode = scene.ShadeShadow
	}

	if tex, ok := attrs["texture"]; ok && tex != "" {
		l.ensureTexture(tex)
		m.Texture = tex
	}
	return m
}

func (l *Loader) attachMotion(id ecs.EntityID, attrs map[string]string) {
	_, hasLinear := attrs["velocity"]
	_, hasAngular := attrs["angular-velocity"]
	if hasLinear || hasAngular {
		l.addComponent(id, &scene.Velocity{
			Linear:  vec3Attr(attrs, "velocity", zeroVec3()),
			Angular: degVec3Attr(attrs, "angular-velocity", zeroVec3()),
		})
	}

	_, hasGravity := attrs["gravity"]
	_, hasGround := attrs["ground-y"]
	if hasGravity || hasGround {
		l.addComponent(id, &scene.RigidBody{
			Gravity: boolAttr(attrs, "gravity", false),
			GroundY: floatAttr(attrs, "ground-y", 0),
			Mass:    floatAttr(attrs, "mass", 1),
		})
	}
}

func (l *Loader) attachAnimation(id ecs.EntityID, attrs map[string]string) {
	var tracks []scene.Track
	for attr, target := range map[string]scene.TrackTarget{
		"animate-position": scene.TargetPosition,
		"animate-rotation": scene.TargetRotation,
		"animate-scale":    scene.TargetScale,
	} {
		v, ok := attrs[attr]
		if !ok {
			continue
		}
		track, err := parseTrack(v, target)
		if err != nil {
			l.log.Warn("bad animation track, skipping",
				zap.String("attribute", attr), zap.Error(err))
			continue
		}
		tracks = append(tracks, track)
	}
	if len(tracks) == 0 {
		return
	}

	anim := scene.NewAnimation(tracks...)
	anim.Speed = floatAttr(attrs, "animate-speed", 1)
	anim.Loop = boolAttr(attrs, "animate-loop", true)
	l.addComponent(id, anim)
}

// ensureTexture decodes and registers a texture file on first reference.
// Failures degrade: the material keeps the name and simply never uploads.
func (l *Loader) ensureTexture(name string) {
	if l.textures.Has(name) {
		return
	}
	if l.fsys == nil {
		l.log.Warn("texture referenced without a filesystem", zap.String("texture", name))
		return
	}

	f, err := l.fsys.Open(name)
	if err != nil {
		l.log.Warn("texture open failed", zap.String("texture", name), zap.Error(err))
		return
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		l.log.Warn("texture decode failed", zap.String("texture", name), zap.Error(err))
		return
	}
	l.textures.Register(name, img)
}

func (l *Loader) addComponent(id ecs.EntityID, c ecs.Component) {
	if !l.world.AddComponent(id, c) {
		l.log.Warn("add component failed",
			zap.Uint64("entity", uint64(id)),
			zap.String("type", string(c.Type())))
	}
}
