package handlers

// Payload keys owned by the built-in handlers. The routing core never
// inspects the payload; these constants only coordinate the handlers in
// this package with their callers (CLI, HTTP adapter).
const (
	// KeyMessage holds the inbound user message.
	KeyMessage = "message"
	// KeyReply holds the latest handler reply shown to the user.
	KeyReply = "reply"
	// KeyPrimaryDomain holds the inferred domain of the request
	// (billing, technical, usage, api).
	KeyPrimaryDomain = "primary_domain"
	// KeySources lists the knowledge-base document titles a reply was
	// grounded on.
	KeySources = "sources"
)

// message extracts the inbound user message from the payload.
func message(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	s, _ := payload[KeyMessage].(string)
	return s
}
