/*
Package switchboard routes a single unit of conversational work through a
chain of specialized handlers selected dynamically at runtime, with a hard
bound on the number of hops and a guaranteed fallback path when no handler
applies.

A conversation flows caller -> Engine -> compiled graph -> sequence of
handler invocations, each mutating the shared ConversationState, back to
the caller. Handlers are registered by name in a registry built once at
process start; a graph builder composes registry entries and routing edges
into an immutable CompiledGraph; the execution engine loops handler ->
token -> routing decision until the terminal token, an escalation, or the
hop ceiling.

	reg := registry.New()
	reg.MustRegister("router", routerFactory, "entry", "triage")
	reg.MustRegister("billing", billingFactory, "specialist", "finance")
	reg.MustRegister("escalation", escalationFactory, "fallback", "support")

	engine, err := switchboard.New(reg, "router",
		[]string{"billing", "escalation"}, nil)
	if err != nil {
		log.Fatal(err)
	}

	state := engine.StartConversation()
	result, err := engine.Run(ctx, state)

The content of individual handlers, the LLM call, and the knowledge-base
search are external collaborators behind the interfaces in pkg/ports.
*/
package switchboard
