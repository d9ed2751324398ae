package access

import "github.com/kailas-cloud/docdex/internal/domain/document"

// Scope is the boolean predicate a document must satisfy to be a candidate
// for a given identity's operation, plus the index hints the storage layer
// uses for pushdown. Storage results must still be re-checked with Matches:
// the index sets may contain stale entries (e.g. after a share is revoked).
type Scope struct {
	identity       string
	organizationID string
	orgMember      bool
	ownerOnly      bool
}

// ListScope returns the broad predicate used for document listing:
// owned, explicitly shared, or organization-visible within the active org.
func ListScope(c Context) Scope {
	return Scope{
		identity:       c.Identity(),
		organizationID: c.OrganizationID(),
		orgMember:      c.IsOrganizationMember(),
	}
}

// SearchScope returns the owner-only predicate used for search.
//
// Deliberately narrower than ListScope: search covers "my documents" only,
// even though the same identity can read shared and organization documents
// via direct lookup. Product policy, not an oversight — do not widen.
func SearchScope(c Context) Scope {
	return Scope{identity: c.Identity(), ownerOnly: true}
}

// IsEmpty reports whether the scope is always-false (unrecognized identity).
// An empty scope yields an empty result set, never an error.
func (s Scope) IsEmpty() bool { return s.identity == "" }

// OwnerOnly reports whether only owned documents are in scope.
func (s Scope) OwnerOnly() bool { return s.ownerOnly }

// Identity returns the identity the scope was resolved for.
func (s Scope) Identity() string { return s.identity }

// OrganizationID returns the active organization id for pushdown ("" when
// the organization clause does not apply).
func (s Scope) OrganizationID() string {
	if s.ownerOnly || !s.orgMember {
		return ""
	}
	return s.organizationID
}

// Matches reports whether the document satisfies the scope predicate.
func (s Scope) Matches(doc *document.Document) bool {
	if s.IsEmpty() {
		return false
	}
	if doc.IsOwnedBy(s.identity) {
		return true
	}
	if s.ownerOnly {
		return false
	}
	if doc.IsSharedWith(s.identity) {
		return true
	}
	return doc.Visibility() == document.VisibilityOrganization &&
		s.orgMember &&
		doc.OrganizationID() == s.organizationID
}
