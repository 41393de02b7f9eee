package ecs

import (
	"context"
	"runtime/debug"
	"sort"
	"time"

	"go.uber.org/zap"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Priority       int
	Enabled        bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler orders and invokes named per-frame systems by priority.
type Scheduler struct {
	world   *World
	log     *zap.Logger
	systems []*systemEntry
	stats   map[string]*systemStatsInternal

	nextOrder  int
	elapsed    float64
	frameCount uint64
}

// NewScheduler creates a scheduler driving the given world.
func NewScheduler(world *World) *Scheduler {
	return &Scheduler{
		world: world,
		log:   world.Logger().Named("scheduler"),
		stats: make(map[string]*systemStatsInternal),
	}
}

// AddSystem registers a named system, enabled by default. Registering a name
// twice replaces the previous registration (keeping the new priority).
// Systems run in descending priority order; ties run in registration order.
func (s *Scheduler) AddSystem(name string, fn SystemFunc, priority int) {
	s.RemoveSystem(name)

	s.systems = append(s.systems, &systemEntry{
		name:     name,
		fn:       fn,
		priority: priority,
		order:    s.nextOrder,
		enabled:  true,
	})
	s.nextOrder++

	sort.SliceStable(s.systems, func(i, j int) bool {
		if s.systems[i].priority != s.systems[j].priority {
			return s.systems[i].priority > s.systems[j].priority
		}
		return s.systems[i].order < s.systems[j].order
	})

	s.stats[name] = &systemStatsInternal{
		minDuration: time.Duration(1<<63 - 1),
	}
}

// SetSystemEnabled toggles a registered system. Returns false if no system
// has that name.
func (s *Scheduler) SetSystemEnabled(name string, enabled bool) bool {
	for _, entry := range s.systems {
		if entry.name == name {
			entry.enabled = enabled
			return true
		}
	}
	return false
}

// RemoveSystem unregisters a system. Returns false if no system has that
// name.
func (s *Scheduler) RemoveSystem(name string) bool {
	for i, entry := range s.systems {
		if entry.name == name {
			s.systems = append(s.systems[:i], s.systems[i+1:]...)
			delete(s.stats, name)
			return true
		}
	}
	return false
}

// Update advances the frame clock and runs every enabled system once in
// descending priority order. A panicking system is recovered and logged; the
// remaining systems still run. Buffered commands are flushed at the end of
// the frame.
func (s *Scheduler) Update(dt float64) {
	s.elapsed += dt
	s.frameCount++

	frame := newUpdateFrame(dt, s.elapsed, s.frameCount, s.world)

	for _, entry := range s.systems {
		if !entry.enabled {
			continue
		}

		start := time.Now()
		s.runIsolated(entry, frame)
		duration := time.Since(start)

		stats := s.stats[entry.name]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration
		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush(s.world)
}

func (s *Scheduler) runIsolated(entry *systemEntry, frame *UpdateFrame) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("system panicked",
				zap.String("system", entry.name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()
	entry.fn(frame)
}

// Run executes frames repeatedly at the given interval until the context is
// cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Update(dt)
		}
	}
}

// Elapsed returns the accumulated simulation time in seconds.
func (s *Scheduler) Elapsed() float64 {
	return s.elapsed
}

// FrameCount returns the number of frames run so far.
func (s *Scheduler) FrameCount() uint64 {
	return s.frameCount
}

// GetStats returns statistics about system execution, in current run order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}

	var totalExecs int64
	for i, entry := range s.systems {
		internal := s.stats[entry.name]
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			Priority:       entry.priority,
			Enabled:        entry.enabled,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
