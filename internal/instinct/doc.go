// Package instinct implements the confidence-scored instinct store.
//
// An instinct is a small learned pattern record: a named rule with a
// category, a free-text pattern, and a confidence score in [0.10, 0.95].
// Confidence grows when an instinct is reinforced and decays with disuse.
//
// # Confidence model
//
// New instincts start at 0.50. Reinforce adds 0.05 (capped at 0.95) and
// resets the decay clock by updating LastUsed. Decay subtracts 0.01 per
// whole week since LastUsed (floored at 0.10) and is a pure projection:
// it is computed from LastUsed every time, never persisted, and never
// compounds across calls.
//
// # Storage
//
// The Store is an explicit object over an injected Backend. FileBackend
// persists the collection as a pretty-printed JSON array with an atomic
// temp-file+rename save and a configurable recovery policy for corrupt
// files. MemoryBackend serves tests and embedding.
//
// There is no cross-process locking: concurrent invocations race
// last-writer-wins on the backing file.
//
// # Clustering
//
// Evolve groups instincts by category and reports groups with at least
// three members and mean projected confidence >= 0.70 as candidates for
// promotion into a formal skill. It never mutates the store and never
// generates skill files itself.
package instinct
