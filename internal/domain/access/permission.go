// Package access models the requesting identity and its document scope.
package access

// Action is what an identity may do to a resource.
type Action uint8

// Action constants.
const (
	ActionRead Action = iota
	ActionWrite
	ActionDelete
	ActionShare
	ActionAdmin
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	case ActionDelete:
		return "delete"
	case ActionShare:
		return "share"
	case ActionAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Resource is the kind of object an action applies to.
type Resource uint8

// Resource constants.
const (
	ResourceDocument Resource = iota
	ResourceFolder
	ResourceOrganization
	ResourceUser
)

// String returns the resource name.
func (r Resource) String() string {
	switch r {
	case ResourceDocument:
		return "document"
	case ResourceFolder:
		return "folder"
	case ResourceOrganization:
		return "organization"
	case ResourceUser:
		return "user"
	default:
		return "unknown"
	}
}

// Permission is a closed action×resource pair. Replaces the loosely-typed
// permission bags the presentation layer used to pass around.
type Permission struct {
	Action   Action
	Resource Resource
}

// permissionsForRole derives the permission set for an organization role.
func permissionsForRole(role Role) []Permission {
	base := []Permission{
		{ActionRead, ResourceDocument},
		{ActionWrite, ResourceDocument},
		{ActionDelete, ResourceDocument},
		{ActionShare, ResourceDocument},
		{ActionRead, ResourceFolder},
		{ActionWrite, ResourceFolder},
	}

	switch role {
	case RoleOwner, RoleAdmin:
		return append(base,
			Permission{ActionAdmin, ResourceOrganization},
			Permission{ActionRead, ResourceOrganization},
			Permission{ActionRead, ResourceUser},
		)
	case RoleMember:
		return append(base, Permission{ActionRead, ResourceOrganization})
	case RoleGuest:
		return []Permission{
			{ActionRead, ResourceDocument},
			{ActionRead, ResourceFolder},
		}
	default:
		return base
	}
}
