// GruhaBuddy CI
//
// Package main provides reproducible builds and tests locally and in CI.
package main

import (
	"context"

	"dagger/gruha/internal/dagger"
)

// Gruha is the main module for the GruhaBuddy CI pipeline
type Gruha struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Gruha CI module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".gruha", ".env", "build", "tmp", "_examples"]
	source *dagger.Directory,
) *Gruha {
	return &Gruha{
		Source: source,
	}
}

// goContainer returns an Alpine Go container with the module cache and the
// project source mounted. gruha is pure Go, so CGO stays off.
func (g *Gruha) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", g.Source)
}

// Test runs the gruha unit tests via "go test"
//
// +check
func (g *Gruha) Test(ctx context.Context) (string, error) {
	return g.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}

// Vet runs "go vet" over every package
//
// +check
func (g *Gruha) Vet(ctx context.Context) (string, error) {
	return g.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
}
