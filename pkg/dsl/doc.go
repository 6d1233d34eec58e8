/*
Package dsl provides a fluent Go builder for constructing switchboard
graphs programmatically, instead of relying on a YAML config file. This
is particularly useful for dynamic graph generation, unit testing, and
leveraging IDE autocompletion and type checking.

Example usage:

	b := dsl.New("support").
		Entry("router", routerFactory)

	b.Handler("billing", billingFactory).
		Category("billing").
		On("billing")

	b.Handler("escalation", escalationFactory).
		Tier("fallback")

	engine, err := b.Compile()
*/
package dsl
