// Package trust holds the small trust-configuration primitives the AAS-ACI
// validator is built from: allow-lists of JWKS endpoints and CCE policy
// strings, and a TTL cache for fetched JWKS documents. It intentionally does
// not model name-to-key resolution or federation; every binding the
// validator checks arrives already signed inside the attestation token.
package trust

// AllowList is a static set of trusted strings — JKU URLs or plaintext CCE
// policies — configured once at startup. An empty AllowList matches nothing
// by default; callers that want "allow any" must say so explicitly by
// treating Empty() as a distinct case and logging a warning, never by
// silently treating "no entries" as "allow all".
type AllowList struct {
	entries map[string]struct{}
}

// NewAllowList builds an AllowList from a slice of strings, typically read
// out of configuration.
func NewAllowList(values []string) *AllowList {
	entries := make(map[string]struct{}, len(values))
	for _, v := range values {
		entries[v] = struct{}{}
	}
	return &AllowList{entries: entries}
}

// Empty reports whether the allow-list has no entries.
func (a *AllowList) Empty() bool {
	return a == nil || len(a.entries) == 0
}

// Contains reports whether value is present in the allow-list.
func (a *AllowList) Contains(value string) bool {
	if a == nil {
		return false
	}
	_, ok := a.entries[value]
	return ok
}

// Entries returns the allow-list's members in unspecified order. Used by
// checks that must try every entry, such as hashing each CCE policy string
// and comparing against a claim, rather than a single membership test.
func (a *AllowList) Entries() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.entries))
	for e := range a.entries {
		out = append(out, e)
	}
	return out
}
