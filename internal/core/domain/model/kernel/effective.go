package kernel

// Effective resolves a setting through an override chain: the first candidate
// that is present wins, otherwise fallback is returned.
//
// It backs every "custom value overrides parent default" rule of the domain,
// e.g. custom workflow settings over template settings, or store approval style
// over company approval style.
//
// Example:
//
//	module := kernel.Effective(grant.DefaultModule, requestedModule)
func Effective[T any](fallback T, candidates ...*T) T {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return fallback
}

// EffectiveBy is Effective with a custom presence test, for values such as
// strings or structs whose zero value means "not configured".
//
// Example:
//
//	style := kernel.EffectiveBy(workflow.ApprovalStyle.IsSet, workflow.DefaultApprovalStyle,
//	    store.ApprovalStyle, company.ApprovalStyle)
func EffectiveBy[T any](present func(T) bool, fallback T, candidates ...T) T {
	for _, c := range candidates {
		if present(c) {
			return c
		}
	}
	return fallback
}
