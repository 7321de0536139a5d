package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/grab"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Targets  int
	Owners   int
	Views    int
	Workers  int
	Mode     string

	// Results
	TotalUpdates   int64
	TickErrors     int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Resolve        ResolveTotals
	Orphans        int64
	Storage        ecs.StorageStats
	Scheduler      *ecs.SchedulerStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// ResolveTotals accumulates grab.ResolveStats over a run.
type ResolveTotals struct {
	Idle     int64
	Dragging int64
	Acquired int64
	Released int64
	Resynced int64
	Failures int64
}

func (t *ResolveTotals) add(s grab.ResolveStats) {
	t.Idle += int64(s.Idle)
	t.Dragging += int64(s.Dragging)
	t.Acquired += int64(s.Acquired)
	t.Released += int64(s.Released)
	t.Resynced += int64(s.Resynced)
	t.Failures += int64(s.Failures)
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Grab Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Focus Targets:** {{.Targets}}
- **Pointer Owners:** {{.Owners}} across {{.Views}} views
- **Workers:** {{.Workers}}
- **Resolve Mode:** {{.Mode}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Failed Ticks:** {{.TickErrors}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{with .Scheduler}}
## Systems
{{range .Systems}}- **{{.Name}}:** avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}} over {{.ExecutionCount}} runs
{{end}}{{end}}
## Focus Activity (owner ticks)
- Idle:      {{.Resolve.Idle}}
- Dragging:  {{.Resolve.Dragging}}
- Acquired:  {{.Resolve.Acquired}}
- Released:  {{.Resolve.Released}}
- Resynced:  {{.Resolve.Resynced}}
- Failures:  {{.Resolve.Failures}}
- Orphans:   {{.Orphans}}

## Storage
- Archetypes: {{.Storage.ArchetypeCount}}
- Entities:   {{.Storage.TotalEntityCount}}
- Singletons: {{.Storage.SingletonCount}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} bytes
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} bytes
- Sys Memory:     {{mb .MemStatsStart.Sys}} MB (start) -> {{mb .MemStatsEnd.Sys}} MB (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}} bytes
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{nsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"nsub": func(a, b uint64) uint64 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
