package domain

// Role is one of the fixed membership roles.
type Role string

const (
	RoleKetua      Role = "ketua"
	RoleWakilKetua Role = "wakilKetua"
	RoleSekretaris Role = "sekretaris"
	RoleBendahara  Role = "bendahara"
	RoleAdmin      Role = "admin"
	RoleAnggota    Role = "anggota"
)

// DefaultRole is assigned when registration does not specify a role.
const DefaultRole = RoleAnggota

// validRoles is the closed role enumeration.
var validRoles = map[Role]bool{
	RoleKetua:      true,
	RoleWakilKetua: true,
	RoleSekretaris: true,
	RoleBendahara:  true,
	RoleAdmin:      true,
	RoleAnggota:    true,
}

// IsValidRole reports whether r is one of the enumerated roles.
func IsValidRole(r Role) bool {
	return validRoles[r]
}

// Capability is a named group of privileged actions.
type Capability string

const (
	// CapManageMembers covers creating, updating and deleting other members
	// and reading the audit log.
	CapManageMembers Capability = "manage_members"

	// CapManageMoney covers payment verification, manual kas entry and
	// expense management. Bendahara only - no other pengurus role may
	// countersign a payment.
	CapManageMoney Capability = "manage_money"

	// CapViewAllDues covers the staff view over every member's kas records.
	CapViewAllDues Capability = "view_all_dues"
)

// capabilityRoles maps each capability to the roles that hold it.
var capabilityRoles = map[Capability]map[Role]bool{
	CapManageMembers: {
		RoleKetua:      true,
		RoleWakilKetua: true,
		RoleSekretaris: true,
		RoleBendahara:  true,
		RoleAdmin:      true,
	},
	CapManageMoney: {
		RoleBendahara: true,
	},
	CapViewAllDues: {
		RoleKetua:      true,
		RoleWakilKetua: true,
		RoleSekretaris: true,
		RoleBendahara:  true,
		RoleAdmin:      true,
	},
}

// Actor identifies the authenticated caller of an operation, as resolved
// from the access token.
type Actor struct {
	ID   uint
	Nama string
	Role Role
}

// Authorize is the single authorization predicate. Every mutating operation
// must pass through here before touching storage.
func Authorize(role Role, cap Capability) bool {
	roles, ok := capabilityRoles[cap]
	if !ok {
		return false
	}
	return roles[role]
}
