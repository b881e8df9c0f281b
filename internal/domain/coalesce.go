package domain

// CoalesceStr picks the first non-empty string. Config layers pass the
// winning source first, e.g. CoalesceStr(flag, env, file).
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// IntFromPtrWithDefault unwraps optional numbers from decoded YAML, JSON or
// API payloads, where a nil pointer means the field was absent.
func IntFromPtrWithDefault(fallback int, ptrs ...*int) int {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// ParentOrRoot resolves an optional parent id; absent means top-level.
func ParentOrRoot(parentID *int) int {
	return IntFromPtrWithDefault(RootParentID, parentID)
}
