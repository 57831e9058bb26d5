package pipeline

import (
	"context"

	"github.com/cwbudde/algo-tempo/tempo"
)

// Source produces the beat activation function for a named input. How the
// activation is computed is the producer's business: a beat-tracking model,
// an onset detector or a cache file all satisfy the same contract.
type Source interface {
	Activation(ctx context.Context, name string) (tempo.Activation, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, name string) (tempo.Activation, error)

// Activation calls f.
func (f SourceFunc) Activation(ctx context.Context, name string) (tempo.Activation, error) {
	return f(ctx, name)
}

// CacheSource reads previously saved activation cache files; the item name
// is the file path.
type CacheSource struct{}

// Activation loads the cache file at name.
func (CacheSource) Activation(ctx context.Context, name string) (tempo.Activation, error) {
	if err := ctx.Err(); err != nil {
		return tempo.Activation{}, err
	}
	return LoadActivation(name)
}
