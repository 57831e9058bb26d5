// Package pipeline composes an activation source with one or more output
// stages and applies the composition to a single input or a batch of inputs.
//
// A [Source] produces a beat activation function for a named input, either
// by computing it live (any analyzer satisfying the interface) or by reading
// a previously written activation cache. A [Sink] consumes the activation:
// [EstimateSink] runs tempo estimation and writes formatted results,
// [CacheSink] persists the activation for later runs.
//
// Batch runs process items independently on a bounded worker pool: items
// share no mutable state, and one item's failure is recorded and logged
// without aborting the rest.
package pipeline
