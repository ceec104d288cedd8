package permission

// CanFromClaims reports whether the permission keys embedded in a credential
// contain resource:action. Both sides are normalized before comparison.
// A false result is not a denial; callers must fall back to a live lookup.
func CanFromClaims(claims []string, resource, action string) bool {
	want := NewKey(resource, action)
	if !want.Valid() {
		return false
	}

	for _, c := range claims {
		if ParseKey(c) == want {
			return true
		}
	}

	return false
}
