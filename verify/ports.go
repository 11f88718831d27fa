package verify

import (
	"context"

	"veripack/registry"
)

// MetadataSource fetches package metadata from a registry.
// Implemented by registry.Client.
type MetadataSource interface {
	Packument(ctx context.Context, name string) (*registry.Packument, error)
}

// Runner executes a command in an explicit working directory and returns its
// captured standard output. A non-zero exit must surface as an error carrying
// the exit code and stderr. Implemented by execrunner.Runner.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// Workspace allocates fresh, uniquely named scratch directories.
// Implemented by scratch.Dirs.
type Workspace interface {
	TempDir() (string, error)
}

// RenderFunc receives the full step state after every update. The pipeline
// works the same with or without one.
type RenderFunc func(Snapshot)
