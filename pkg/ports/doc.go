/*
Package ports defines the driven ports (interfaces) for the Switchboard engine.

These interfaces decouple the routing core from external implementations,
allowing the engine to work with various storage backends and external
collaborators (LLM, knowledge base).

# Key Interfaces

  - Handler: a unit of conversational work invoked by the execution engine.
  - StateStore: persists ConversationState between turns.
  - ConversationLocker: distributed locking for concurrent session access.
  - KnowledgeBase / Completer: collaborators consumed by handlers, never by
    the core.
*/
package ports
