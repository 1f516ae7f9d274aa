package store

// Organization roles, weakest first. The order is the authorization
// hierarchy: any check for a role is satisfied by that role or any stronger
// one.
const (
	RoleViewer = "viewer"
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
)

var roleRank = map[string]int{
	RoleViewer: 0,
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	_, ok := roleRank[s]
	return ok
}

// HasRole reports whether a member holding `role` clears the `required`
// bar. Unknown role strings never qualify.
func HasRole(role, required string) bool {
	have, ok := roleRank[role]
	if !ok {
		return false
	}
	want, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= want
}
