package access

import "github.com/Nahimba/MotoCRM-sub001/internal/model"

const (
	HomePath    = "/"
	AdminPath   = "/admin"
	StaffPath   = "/staff"
	AccountPath = "/account"
)

// Decision is the outcome of an access check. A zero Redirect means the
// request may proceed.
type Decision struct {
	Redirect string
}

// Allow lets the request through.
var Allow = Decision{}

func RedirectTo(path string) Decision { return Decision{Redirect: path} }

func (d Decision) Allowed() bool { return d.Redirect == "" }

// Decide applies the routing table, first match wins:
//
//	anonymous on a non-public path   -> "/"
//	signed in on a public path       -> the role's home
//	admin path without admin role    -> "/account"
//	staff path without admin or instructor role -> "/account"
//
// Admins reach staff paths, staff never reach admin paths.
func Decide(signedIn bool, role model.Role, category Category) Decision {
	if !signedIn {
		if category != CategoryPublic {
			return RedirectTo(HomePath)
		}
		return Allow
	}

	switch category {
	case CategoryPublic:
		return RedirectTo(HomeFor(role))
	case CategoryAdmin:
		if role != model.RoleAdmin {
			return RedirectTo(AccountPath)
		}
	case CategoryStaff:
		if role != model.RoleAdmin && role != model.RoleInstructor {
			return RedirectTo(AccountPath)
		}
	}
	return Allow
}

// HomeFor returns the landing page of a signed-in user.
func HomeFor(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return AdminPath
	case model.RoleInstructor:
		return StaffPath
	default:
		return AccountPath
	}
}
