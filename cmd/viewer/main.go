// The viewer hosts the scene runtime in an ebiten window: it loads an XML
// scene, runs the simulation systems through the scheduler, and renders each
// frame through the software backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/geometry"
	"github.com/plus3/helio/render"
	"github.com/plus3/helio/render/soft"
	"github.com/plus3/helio/scene"
	"github.com/plus3/helio/sceneio"
	"github.com/plus3/helio/systems"
)

type game struct {
	cfg       *Config
	log       *zap.Logger
	world     *ecs.World
	scheduler *ecs.Scheduler
	renderer  *render.Renderer
	backend   *soft.Backend
	camera    *render.Camera
	light     render.Light
	intent    *systems.Intent
	input     *input
}

func (g *game) Update() error {
	g.input.read(g.intent)
	g.scheduler.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.backend.SetTarget(screen)
	g.renderer.Frame(g.camera, g.light)

	if g.cfg.ShowStats {
		g.drawHUD(screen)
	}
}

func (g *game) drawHUD(screen *ebiten.Image) {
	stats := g.renderer.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"fps %.0f  entities %d  opaque %d  transparent %d  shadow %d  errors %d",
		ebiten.ActualFPS(), g.world.EntityCount(),
		stats.Opaque, stats.Transparent, stats.Shadow, stats.Errors,
	), 4, 4)

	y := 20
	for _, s := range g.scheduler.GetStats().Systems {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
			"%-14s last %8s  avg %8s", s.Name, s.LastDuration, s.AvgDuration,
		), 4, y)
		y += 14
	}
}

func (g *game) Layout(int, int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func main() {
	configPath := flag.String("config", "viewer.yaml", "path to the yaml config")
	scenePath := flag.String("scene", "", "scene xml file (overrides config)")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}
	if *scenePath != "" {
		cfg.Scene = *scenePath
	}

	g, err := buildGame(cfg, log)
	if err != nil {
		log.Fatal("setup", zap.Error(err))
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal("run", zap.Error(err))
	}
}

func buildGame(cfg *Config, log *zap.Logger) (*game, error) {
	world := ecs.NewWorld(log)
	geos := geometry.NewLibrary(log)
	textures := render.NewTextureLibrary()

	camera := render.NewCamera()
	light := render.NewLight()

	if cfg.Scene != "" {
		dir := filepath.Dir(cfg.Scene)
		loader := sceneio.NewLoader(world, geos, textures, os.DirFS(dir), log)

		f, err := os.Open(cfg.Scene)
		if err != nil {
			return nil, fmt.Errorf("open scene: %w", err)
		}
		res, loadErr := loader.Load(f)
		f.Close()
		if loadErr != nil {
			return nil, loadErr
		}
		camera = res.Camera
		light = res.Light
		log.Info("scene loaded",
			zap.String("path", cfg.Scene),
			zap.Int("entities", len(res.Entities)))
	} else {
		buildDemoScene(world, geos)
		camera.Position = mgl32.Vec3{0, 2, 8}
	}

	backend := soft.NewBackend(cfg.Window.Width, cfg.Window.Height)
	renderer, err := render.New(backend, world, geos, textures, log)
	if err != nil {
		return nil, err
	}

	intent := &systems.Intent{}
	fp := systems.NewFirstPerson(camera, intent)
	fp.MoveSpeed = cfg.MoveSpeed

	scheduler := ecs.NewScheduler(world)
	scheduler.AddSystem("first-person", fp.Update, 30)
	scheduler.AddSystem("animation", systems.Animate, 20)
	scheduler.AddSystem("physics", systems.Physics, 10)

	return &game{
		cfg:       cfg,
		log:       log,
		world:     world,
		scheduler: scheduler,
		renderer:  renderer,
		backend:   backend,
		camera:    camera,
		light:     light,
		intent:    intent,
		input:     newInput(cfg.MouseSensitivity),
	}, nil
}

// buildDemoScene populates a small scene when no document is given: a grass
// ground, a ring of spinning boxes with projected shadows, and a bouncing
// sphere.
func buildDemoScene(world *ecs.World, geos *geometry.Library) {
	ground := world.CreateEntity()
	groundTr := scene.NewTransform()
	world.AddComponent(ground, groundTr)
	world.AddComponent(ground, scene.NewMesh(geos.CreatePlane("ground", 40, 40)))
	groundMat := scene.NewMaterial()
	groundMat.Mode = scene.ShadeGrass
	world.AddComponent(ground, groundMat)

	boxGeo := geos.CreateBox("demo-box", 1, 1, 1)
	shadowGeo := geos.CreatePlane("demo-shadow", 1.4, 1.4)
	colors := []mgl32.Vec3{{0.9, 0.3, 0.2}, {0.2, 0.5, 0.9}, {0.9, 0.8, 0.2}, {0.4, 0.9, 0.4}}

	for i, c := range colors {
		e := world.CreateEntity()
		tr := scene.NewTransform()
		tr.Position = mgl32.Vec3{float32(i*3) - 4.5, 1, -4}
		world.AddComponent(e, tr)
		world.AddComponent(e, scene.NewMesh(boxGeo))
		mat := scene.NewMaterial()
		mat.BaseColor = c
		if i == 2 {
			mat.Opacity = 0.6
		}
		world.AddComponent(e, mat)
		world.AddComponent(e, &scene.Velocity{Angular: mgl32.Vec3{0, 0.8 + float32(i)*0.2, 0}})

		shadow := world.CreateEntity()
		str := scene.NewTransform()
		str.Position = mgl32.Vec3{tr.Position.X(), 0.01, tr.Position.Z()}
		world.AddComponent(shadow, str)
		world.AddComponent(shadow, scene.NewMesh(shadowGeo))
		smat := scene.NewMaterial()
		smat.Mode = scene.ShadeShadow
		smat.Opacity = 0.4
		smat.Transparent = true
		world.AddComponent(shadow, smat)
	}

	ball := world.CreateEntity()
	btr := scene.NewTransform()
	btr.Position = mgl32.Vec3{0, 6, -8}
	world.AddComponent(ball, btr)
	world.AddComponent(ball, scene.NewMesh(geos.CreateSphere("demo-ball", 0.8, 24)))
	bmat := scene.NewMaterial()
	bmat.BaseColor = mgl32.Vec3{0.8, 0.4, 0.9}
	world.AddComponent(ball, bmat)
	world.AddComponent(ball, &scene.Velocity{})
	world.AddComponent(ball, &scene.RigidBody{Gravity: true, GroundY: 0.8})
}
