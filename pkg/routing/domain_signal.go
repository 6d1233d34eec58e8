package routing

// GenericSupportToken is the loosely-typed token some classifiers emit
// when they cannot name a concrete specialist.
const GenericSupportToken = "support"

// domainTargets maps the secondary primary-domain signal to a concrete
// specialist. Kept separate from Decide: the explicit target token always
// wins, and only a generic "support" token consults the inferred domain.
var domainTargets = map[string]string{
	"billing":   "billing",
	"technical": "technical",
	"usage":     "usage",
	"api":       "api",
}

// ResolveDomain turns a generic support token plus an inferred primary
// domain into a concrete next-step token. Explicit tokens pass through
// untouched; an unknown domain degrades to the escalation handler so the
// run never stalls on a classifier that produced nothing usable.
func ResolveDomain(token, primaryDomain string) string {
	if token != GenericSupportToken {
		return token
	}
	if target, ok := domainTargets[primaryDomain]; ok {
		return target
	}
	return EscalationHandler
}
