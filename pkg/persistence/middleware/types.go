// Package middleware provides StateStore wrappers that add persistence
// behavior (encryption at rest, PII scrubbing) without touching the
// routing core.
package middleware

import "github.com/aretw0/switchboard/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies middlewares so the first listed is the outermost.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
