package access

import "strings"

// Category groups request paths by the privilege they need.
type Category int

const (
	CategoryOther Category = iota // any signed-in user
	CategoryPublic
	CategoryAdmin
	CategoryStaff
)

func (c Category) String() string {
	switch c {
	case CategoryPublic:
		return "public"
	case CategoryAdmin:
		return "admin"
	case CategoryStaff:
		return "staff"
	default:
		return "other"
	}
}

// Classify maps a request path to its category. Matching is on the raw
// path string, so "/administrator" is an admin path too.
func Classify(path string) Category {
	switch {
	case path == "/" || path == "/register" || strings.HasPrefix(path, "/auth"):
		return CategoryPublic
	case strings.HasPrefix(path, "/admin"):
		return CategoryAdmin
	case strings.HasPrefix(path, "/staff"):
		return CategoryStaff
	default:
		return CategoryOther
	}
}
