package httpclient

import "net/http"

// AuthConfig carries the session credentials sent with every request.
type AuthConfig struct {
	CookieName  string
	CookieValue string
}

// CookieAuth authenticates requests with a session cookie.
func CookieAuth(name, value string) *AuthConfig {
	return &AuthConfig{CookieName: name, CookieValue: value}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.CookieName == "" {
		return
	}
	req.AddCookie(&http.Cookie{Name: a.CookieName, Value: a.CookieValue})
}
