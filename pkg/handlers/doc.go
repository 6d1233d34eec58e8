/*
Package handlers contains the built-in specialist handlers that run inside
the routing graph: a router that classifies the inbound message, a set of
knowledge-grounded specialists, and the escalation fallback.

All handlers are stateless and safe for concurrent use; their collaborators
(knowledge base, LLM completer) are injected at registration time. Every
handler is total: collaborator failures degrade the reply, they never
propagate past Process.
*/
package handlers
