package models

// Role is the role a user holds in the system.
type Role string

const (
	RoleVillager Role = "villager"
	RoleHead     Role = "head"
	RoleSuper    Role = "super"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleVillager, RoleHead, RoleSuper:
		return true
	}
	return false
}

// Privileged reports whether a role claim must be confirmed with the
// server before the client trusts it.
func (r Role) Privileged() bool {
	return r == RoleHead || r == RoleSuper
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`

	// Villagers and heads belong to exactly one village. Supervisors
	// carry the set of villages they oversee instead.
	VillageID   *int   `json:"village_id,omitempty"`
	VillageIDs  []int  `json:"village_ids,omitempty"`
	VillageName string `json:"village_name,omitempty"`
}

// Session is the authenticated state persisted between page loads.
// Owned exclusively by the session store.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Village struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
