package ecs_test

import (
	"context"
	"testing"

	"github.com/plus3/grabfocus/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Pose{X: 1.0, Y: 2.0}, Drift{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkSpawnDeleteReuse(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := storage.Spawn(Pose{}, Drift{})
		storage.Delete(id)
	}
}

func BenchmarkGetComponent(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Pose{X: 1.0, Y: 2.0}, Drift{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.ReadComponent[Pose](storage, id)
	}
}

func BenchmarkAddComponent(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = storage.Spawn(Pose{})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.AddComponent(ids[i], Drift{DX: 1})
	}
}

func BenchmarkViewGet(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Pose{}, Drift{})
	view := ecs.NewView[struct {
		*Pose
		*Drift
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = view.Get(id)
	}
}

func BenchmarkQueryIterLarge(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10000; i++ {
		storage.Spawn(Pose{X: float64(i)}, Drift{DX: 1})
	}
	query := ecs.NewQuery[struct {
		*Pose
		*Drift
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		for item := range query.Values() {
			item.Pose.X += item.Drift.DX
		}
	}
}

func BenchmarkParallelChunks(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10000; i++ {
		storage.Spawn(Pose{X: float64(i)}, Drift{DX: 1})
	}
	query := ecs.NewQuery[poseDrift](storage)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		_ = ecs.ParallelChunks(ctx, query, ecs.ChunkOptions{ChunkSize: 512},
			func(ctx context.Context, ids []ecs.EntityId, items []poseDrift) error {
				for _, item := range items {
					item.Pose.X += item.Drift.DX
				}
				return nil
			})
	}
}

func BenchmarkSchedulerOnce(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 1000; i++ {
		storage.Spawn(Pose{}, Drift{DX: 1, DY: 1})
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&DriftSystem{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = scheduler.Once(0.016)
	}
}
