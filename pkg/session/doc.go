/*
Package session orchestrates multi-turn conversation persistence.

It provides high-level abstractions for handling concurrent access to
conversation state across multiple replicas, combining per-conversation
in-process locks with optional distributed locking and a storage adapter.
One conversation ID is stable for the lifetime of a session; each inbound
turn loads the state, runs it through the engine, and saves it back under
the same lock.
*/
package session
