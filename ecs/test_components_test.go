package ecs_test

import "github.com/plus3/grabfocus/ecs"

// Common test component types
type Pose struct {
	X, Y, Z float64
}

type Drift struct {
	DX, DY, DZ float64
}

type Label struct {
	Value string
}

type Grip struct {
	Holder ecs.EntityId
	Force  float64
}

type Mass float64
type Layer int32

type Handle struct{}

type Inventory struct {
	Items []string
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Pose](registry)
	ecs.RegisterComponent[Drift](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Grip](registry)
	ecs.RegisterComponent[Mass](registry)
	ecs.RegisterComponent[Layer](registry)
	ecs.RegisterComponent[Handle](registry)
	ecs.RegisterComponent[Inventory](registry)
	return registry
}
