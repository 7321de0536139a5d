package ecs_test

import (
	"context"
	"fmt"

	"github.com/plus3/grabfocus/ecs"
)

// ExampleParallelChunks splits a query snapshot into chunks and processes
// them on a bounded worker group. Each chunk owns its entities exclusively.
func ExampleParallelChunks() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Spin](registry)
	storage := ecs.NewStorage(registry)

	for i := range 1000 {
		storage.Spawn(Spin{Rate: float64(i % 3)})
	}

	query := ecs.NewQuery[struct{ *Spin }](storage)
	err := ecs.ParallelChunks(context.Background(), query, ecs.ChunkOptions{Workers: 4, ChunkSize: 100},
		func(ctx context.Context, ids []ecs.EntityId, items []struct{ *Spin }) error {
			for _, item := range items {
				item.Spin.Angle += item.Spin.Rate
			}
			return nil
		})
	if err != nil {
		fmt.Println(err)
	}

	total := 0.0
	for item := range query.Values() {
		total += item.Spin.Angle
	}
	fmt.Printf("Total: %.0f\n", total)

	// Output:
	// Total: 999
}
