package ecs_test

import (
	"fmt"

	"github.com/plus3/grabfocus/ecs"
)

type SessionConfig struct {
	MaxOwners  int
	TouchDepth float64
}

type FrameCounter struct {
	Frames int
}

// ExampleNewSingleton demonstrates creating and accessing singleton components.
// Singletons are not attached to any entity and are shared by every accessor.
func ExampleNewSingleton() {
	registry := ecs.NewComponentRegistry()
	storage := ecs.NewStorage(registry)

	config := ecs.NewSingleton[SessionConfig](storage, SessionConfig{
		MaxOwners:  4,
		TouchDepth: 15,
	})
	fmt.Printf("Config: %d owners, depth %.0f\n", config.Get().MaxOwners, config.Get().TouchDepth)

	config.Get().TouchDepth = 20

	same := ecs.NewSingleton[SessionConfig](storage)
	fmt.Printf("Same config: depth %.0f\n", same.Get().TouchDepth)

	// Output:
	// Config: 4 owners, depth 15
	// Same config: depth 20
}

// ExampleStorage_ReadSingleton shows reading a singleton outside of a system.
func ExampleStorage_ReadSingleton() {
	registry := ecs.NewComponentRegistry()
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton[SessionConfig](storage, SessionConfig{MaxOwners: 8})

	var config *SessionConfig
	if storage.ReadSingleton(&config) {
		fmt.Printf("Owners: %d\n", config.MaxOwners)
	}

	var counter *FrameCounter
	if !storage.ReadSingleton(&counter) {
		fmt.Println("Counter not found")
	}

	// Output:
	// Owners: 8
	// Counter not found
}
