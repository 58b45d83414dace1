package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/gruha/internal/dagger"
)

const versionPkg = "github.com/gruhabuddy/gruha/pkg/utils"

// Build and return directory of gruha binaries
func (g *Gruha) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	// define build matrix
	gooses := []string{"linux", "darwin"}
	goarches := []string{"amd64", "arm64"}

	// create empty directory to put build artifacts
	outputs := dag.Directory()

	for _, goos := range gooses {
		for _, goarch := range goarches {
			path := fmt.Sprintf("%s/%s/", goos, goarch)

			build := g.goContainer().
				WithEnvVariable("GOOS", goos).
				WithEnvVariable("GOARCH", goarch).
				WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/gruha"})

			outputs = outputs.WithDirectory(path, build.Directory(path))
		}
	}

	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (g *Gruha) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X '%s.Version=%s'", versionPkg, version),
		fmt.Sprintf("-X '%s.Sha=%s'", versionPkg, commit),
		fmt.Sprintf("-X '%s.Buildtime=%s'", versionPkg, time.Now().UTC().Format(time.RFC3339)),
	}

	return g.Build(ctx, strings.Join(ldflags, " "))
}

// Image packages the linux binary for the given architecture into a
// minimal container running "gruha serve".
func (g *Gruha) Image(
	ctx context.Context,

	// Target architecture
	// +optional
	// +default="amd64"
	arch string,
) *dagger.Container {
	bin := g.Build(ctx, "-s -w").File(fmt.Sprintf("linux/%s/gruha", arch))

	return dag.Container(dagger.ContainerOpts{Platform: dagger.Platform("linux/" + arch)}).
		From("alpine:3.21").
		WithExec([]string{"apk", "add", "--no-cache", "ca-certificates"}).
		WithFile("/usr/local/bin/gruha", bin).
		WithExposedPort(8080).
		WithExposedPort(8081).
		WithEntrypoint([]string{"gruha"}).
		WithDefaultArgs([]string{"serve"})
}
