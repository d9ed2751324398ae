package access

// Role is the resolved role of an identity within its active organization.
type Role string

// Role constants.
const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	// RoleGuest marks an identity without organization membership.
	RoleGuest Role = "guest"
)

// IsValid checks if the role is one of the supported values.
func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember || r == RoleGuest
}

// Context is the ephemeral per-request access context.
// Never persisted; recomputed on every request.
type Context struct {
	identity       string
	organizationID string
	role           Role
	permissions    []Permission
}

// NewContext builds an access context for a request.
// An empty organization id forces RoleGuest regardless of the claimed role.
func NewContext(identity, organizationID string, role Role) Context {
	if organizationID == "" || !role.IsValid() {
		role = RoleGuest
	}
	return Context{
		identity:       identity,
		organizationID: organizationID,
		role:           role,
		permissions:    permissionsForRole(role),
	}
}

// Anonymous returns a context for an unrecognized identity.
// Every scope derived from it is always-false.
func Anonymous() Context {
	return Context{role: RoleGuest}
}

// Identity returns the requesting identity ("" when anonymous).
func (c Context) Identity() string { return c.identity }

// OrganizationID returns the active organization id ("" when none).
func (c Context) OrganizationID() string { return c.organizationID }

// Role returns the resolved organization role.
func (c Context) Role() Role { return c.role }

// Permissions returns the derived permission set.
func (c Context) Permissions() []Permission { return c.permissions }

// Can reports whether the context carries the given permission.
func (c Context) Can(action Action, resource Resource) bool {
	for _, p := range c.permissions {
		if p.Action == action && p.Resource == resource {
			return true
		}
	}
	return false
}

// IsOrganizationMember reports whether the identity is a member of its active
// organization (guest role means resolved but not a member).
func (c Context) IsOrganizationMember() bool {
	return c.organizationID != "" && c.role != RoleGuest
}
