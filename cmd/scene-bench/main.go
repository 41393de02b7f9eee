// scene-bench runs the simulation headless and reports frame timing and
// memory behavior: it fills the world with animated, physics-driven
// entities, ticks the scheduler for a fixed duration, and prints a report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/geometry"
	"github.com/plus3/helio/scene"
	"github.com/plus3/helio/systems"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "how long to run the simulation")
	entityCount := flag.Int("entities", 10000, "number of entities to create")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "include GC pause metrics in the report")
	flag.Parse()

	log.Println("Starting scene benchmark...")

	world := ecs.NewWorld(nil)
	geos := geometry.NewLibrary(nil)
	geos.CreateBox("bench-box", 1, 1, 1)

	scheduler := ecs.NewScheduler(world)
	scheduler.AddSystem("animation", systems.Animate, 20)
	scheduler.AddSystem("physics", systems.Physics, 10)

	log.Printf("Populating world with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		spawnBenchEntity(world)
	}
	log.Println("Population complete.")

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Systems:        2,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalFrames int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			frameStart := time.Now()
			scheduler.Update(deltaTime.Seconds())
			frameDuration := time.Since(frameStart)

			report.FrameTime.Samples = append(report.FrameTime.Samples, frameDuration)
			totalFrames++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = totalFrames
	report.FrameTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Scene Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// spawnBenchEntity creates one entity with a random mix of motion-producing
// components so both systems have work every frame.
func spawnBenchEntity(world *ecs.World) {
	id := world.CreateEntity()

	tr := scene.NewTransform()
	tr.Position = mgl32.Vec3{
		rand.Float32()*100 - 50,
		rand.Float32() * 20,
		rand.Float32()*100 - 50,
	}
	world.AddComponent(id, tr)
	world.AddComponent(id, scene.NewMesh("bench-box"))
	world.AddComponent(id, scene.NewMaterial())

	if rand.Intn(2) == 0 {
		world.AddComponent(id, &scene.Velocity{
			Linear:  mgl32.Vec3{rand.Float32() - 0.5, 0, rand.Float32() - 0.5},
			Angular: mgl32.Vec3{0, rand.Float32() * 2, 0},
		})
		if rand.Intn(2) == 0 {
			world.AddComponent(id, &scene.RigidBody{Gravity: true})
		}
	}

	if rand.Intn(3) == 0 {
		end := rand.Float32()*4 + 1
		world.AddComponent(id, scene.NewAnimation(scene.Track{
			Target: scene.TargetScale,
			Times:  []float32{0, end / 2, end},
			Values: []mgl32.Vec3{{1, 1, 1}, {2, 2, 2}, {1, 1, 1}},
		}))
	}
}
