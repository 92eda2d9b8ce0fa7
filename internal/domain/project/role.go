package project

// Role is the closed set of project membership roles. Authorization checks
// go through the capability predicates below rather than scattered equality
// comparisons, so adding a role is a single-point change.
type Role string

const (
	RoleProductOwner Role = "PRODUCT_OWNER"
	RoleScrumMaster  Role = "SCRUM_MASTER"
	RoleDeveloper    Role = "DEVELOPER"
)

// IsValid returns true if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleProductOwner, RoleScrumMaster, RoleDeveloper:
		return true
	default:
		return false
	}
}

// IsProductOwner reports whether the role grants write access to the
// project's stories, sprints, and tasks.
func (r Role) IsProductOwner() bool {
	return r == RoleProductOwner
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
