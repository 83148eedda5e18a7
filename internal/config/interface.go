package config

import "context"

// Loader turns configuration sources into the unified model. The HCL
// loader is the only concrete implementation.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
