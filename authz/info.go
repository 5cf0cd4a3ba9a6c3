package authz

// Info holds the roles and permission grants one realm resolved for a
// principal set. It round-trips through JSON so realm caches can live
// in Redis.
type Info struct {
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// NewInfo builds an Info from role and permission string sets.
func NewInfo(roles, permissions []string) *Info {
	return &Info{Roles: roles, Permissions: permissions}
}

// HasRole reports whether role appears in the grant set.
func (i *Info) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole appends role if not already granted.
func (i *Info) AddRole(role string) {
	if !i.HasRole(role) {
		i.Roles = append(i.Roles, role)
	}
}

// AddPermission appends a permission string if not already granted.
func (i *Info) AddPermission(permission string) {
	for _, p := range i.Permissions {
		if p == permission {
			return
		}
	}
	i.Permissions = append(i.Permissions, permission)
}

// Merge folds other's grants into i without duplication.
func (i *Info) Merge(other *Info) {
	if other == nil {
		return
	}
	for _, r := range other.Roles {
		i.AddRole(r)
	}
	for _, p := range other.Permissions {
		i.AddPermission(p)
	}
}
