package constants

// Cookie names shared between controllers and middleware.
const (
	CookieAccess  = "access"
	CookieRefresh = "refresh"
)
