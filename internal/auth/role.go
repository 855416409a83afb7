package auth

import "github.com/fanaberia/fanaberia/internal/model"

// SignInPath is where an anonymous visitor is sent for role.
func SignInPath(role model.Role) string {
	if role == model.RoleAdmin {
		return "/warp/sign-in"
	}
	return "/auth/sign-in"
}

// IndexPath is the landing page of role.
func IndexPath(role model.Role) string {
	if role == model.RoleAdmin {
		return "/warp"
	}
	return "/"
}

// RequireRole reports whether principal may enter a route for role. When it
// may not, redirect names where to go instead: the role's sign-in page for
// anonymous visitors, the admin index for admins on user routes, and the
// user index for everyone else.
func RequireRole(principal *model.Principal, role model.Role) (redirect string, ok bool) {
	if principal == nil {
		return SignInPath(role), false
	}
	if principal.Kind == role {
		return "", true
	}
	if principal.Kind == model.RoleAdmin {
		return IndexPath(model.RoleAdmin), false
	}
	return IndexPath(model.RoleUser), false
}
