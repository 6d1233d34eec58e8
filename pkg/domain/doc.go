/*
Package domain contains the core domain models for the Switchboard engine.

It defines the fundamental entities of the routing core: the conversation
state threaded through every hop, the run outcome reported to the caller,
the error taxonomy for configuration and runtime failures, and the
lifecycle hooks used for observability. This package is kept pure and free
of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - ConversationState: the runtime snapshot of one conversation (turn
    count, handler history, routing token, status, payload).
  - RunResult: the terminal outcome of a single run through the graph.
  - LifecycleHooks: callbacks emitted by the execution engine per hop.
*/
package domain
