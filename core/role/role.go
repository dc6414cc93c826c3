// Package role maps the academy's role identifiers to console landing paths.
package role

// Role identifiers as sent by the academy API (case-sensitive).
const (
	SuperAdmin = "ROLE_SUPER_ADMIN"
	Admin      = "ROLE_ADMIN"
	Support    = "ROLE_SUPPORT"
	Teacher    = "ROLE_TEACHER"
	Student    = "ROLE_STUDENT"
)

// Landing paths.
const (
	PathAdmin   = "/admin"
	PathSupport = "/support"
	PathTeacher = "/teacher"
	PathStudent = "/student"
	PathLogin   = "/login"
)

var (
	// precedence is the order in which roles are considered when resolving a landing path.
	// ROLE_SUPER_ADMIN and ROLE_ADMIN are equivalent for routing.
	precedence = []string{SuperAdmin, Admin, Support, Teacher, Student}

	paths = map[string]string{
		SuperAdmin: PathAdmin,
		Admin:      PathAdmin,
		Support:    PathSupport,
		Teacher:    PathTeacher,
		Student:    PathStudent,
	}

	// AdminRoles grant access to the admin shell.
	AdminRoles = []string{SuperAdmin, Admin}

	// LandingPaths lists every value ResolvePath can return.
	LandingPaths = []string{PathAdmin, PathSupport, PathTeacher, PathStudent, PathLogin}
)

// Path returns the landing path of a single role, and false when the role is not recognized.
func Path(role string) (string, bool) {
	p, ok := paths[role]
	return p, ok
}

// ResolvePath maps a role set to exactly one landing path.
// Recognized roles are considered by precedence; otherwise the first role of the set is tried;
// otherwise the login path is returned.
func ResolvePath(roles []string) string {
	for _, r := range precedence {
		if Has(roles, r) {
			return paths[r]
		}
	}
	if len(roles) > 0 {
		if p, ok := paths[roles[0]]; ok {
			return p
		}
	}
	return PathLogin
}

// PickHint returns the role remembered alongside the token after login:
// ROLE_SUPER_ADMIN, then ROLE_ADMIN, then the first role of the set, else "".
func PickHint(roles []string) string {
	switch {
	case Has(roles, SuperAdmin):
		return SuperAdmin
	case Has(roles, Admin):
		return Admin
	case len(roles) > 0:
		return roles[0]
	default:
		return ""
	}
}

// Has reports whether roles contains any of wanted.
func Has(roles []string, wanted ...string) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}
