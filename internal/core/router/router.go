// Package router holds the navigation table and the route gate. Transports
// register their handlers from Table and apply Gate per request.
package router

import "strings"

// View identifies a page.
type View string

const (
	ViewHome             View = "home"
	ViewError            View = "error"
	ViewUnauthorized     View = "unauthorized"
	ViewLogin            View = "login"
	ViewRegister         View = "register"
	ViewLogout           View = "logout"
	ViewResetPassword    View = "reset-password"
	ViewAgreementSuccess View = "agreement-success"
	ViewAgreementCopy    View = "agreement-copy"
	ViewSignerProgress   View = "signer-progress"
	ViewSignerToggle     View = "signer-toggle"
	ViewSignerResend     View = "signer-resend"
	ViewSignerClose      View = "signer-close"
	ViewReports          View = "reports"
	ViewLocale           View = "settings-locale"
	ViewTheme            View = "settings-theme"
)

const (
	PathHome         = "/"
	PathError        = "/error"
	PathUnauthorized = "/unauthorized"
	PathUser         = "/user"
	PathLogin        = "/user/login"
	PathRegister     = "/user/register"
)

// Route maps a path pattern to a view or a redirect. Patterns use ":name"
// for a single segment.
type Route struct {
	Method    string
	Pattern   string
	View      View
	Redirect  string
	Protected bool
}

// Table is the navigation surface of the application.
var Table = []Route{
	{Method: "GET", Pattern: PathHome, View: ViewHome, Protected: true},
	{Method: "GET", Pattern: PathError, View: ViewError},
	{Method: "GET", Pattern: PathUnauthorized, View: ViewUnauthorized},
	{Method: "GET", Pattern: PathUser, Redirect: PathLogin},
	{Method: "GET", Pattern: PathLogin, View: ViewLogin},
	{Method: "POST", Pattern: PathLogin, View: ViewLogin},
	{Method: "GET", Pattern: PathRegister, View: ViewRegister},
	{Method: "POST", Pattern: PathRegister, View: ViewRegister},
	{Method: "POST", Pattern: "/user/logout", View: ViewLogout},
	{Method: "GET", Pattern: "/user/reset-password", View: ViewResetPassword},
	{Method: "POST", Pattern: "/user/reset-password", View: ViewResetPassword},
	{Method: "GET", Pattern: "/agreement/success", View: ViewAgreementSuccess},
	{Method: "POST", Pattern: "/agreement/success/copy", View: ViewAgreementCopy},
	{Method: "GET", Pattern: "/contracts/:id/signers", View: ViewSignerProgress, Protected: true},
	{Method: "POST", Pattern: "/contracts/:id/signers/:signer/toggle", View: ViewSignerToggle, Protected: true},
	{Method: "POST", Pattern: "/contracts/:id/signers/:signer/resend", View: ViewSignerResend, Protected: true},
	{Method: "POST", Pattern: "/contracts/:id/signers/:signer/close", View: ViewSignerClose, Protected: true},
	{Method: "GET", Pattern: "/reports", View: ViewReports, Protected: true},
	{Method: "POST", Pattern: "/settings/locale", View: ViewLocale},
	{Method: "POST", Pattern: "/settings/theme", View: ViewTheme},
}

// Decision is the outcome of routing one request.
type Decision struct {
	View     View
	Redirect string
	Params   map[string]string
}

// Gate renders the protected subtree when allowed, otherwise redirects to
// fallback. Callers pass "authenticated or still loading" as allowed.
func Gate(allowed bool, fallback string) Decision {
	if allowed {
		return Decision{}
	}
	return Decision{Redirect: fallback}
}

// Resolve matches method and path against Table. Unknown paths redirect to
// the error page; protected routes redirect to /user when not allowed.
func Resolve(method, path string, allowed bool) Decision {
	for _, r := range Table {
		if r.Method != method {
			continue
		}
		params, ok := match(r.Pattern, path)
		if !ok {
			continue
		}
		if r.Redirect != "" {
			return Decision{Redirect: r.Redirect}
		}
		if r.Protected {
			if d := Gate(allowed, PathUser); d.Redirect != "" {
				return d
			}
		}
		return Decision{View: r.View, Params: params}
	}
	return Decision{Redirect: PathError}
}

func match(pattern, path string) (map[string]string, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range ps {
		if strings.HasPrefix(p, ":") {
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = xs[i]
			continue
		}
		if p != xs[i] {
			return nil, false
		}
	}
	return params, true
}
