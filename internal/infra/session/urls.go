package session

import (
	"net/url"
	"strings"
)

const (
	LoginPath  = "/login"
	LogoutPath = "/logout"
	ReturnKey  = "return_url"
)

// SafeReturnPath keeps only site-relative paths; anything else becomes "/".
func SafeReturnPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return p
}

// LoginURL is where an anonymous visitor on returnPath is sent to sign in.
func LoginURL(returnPath string) string {
	return LoginPath + "?" + url.Values{ReturnKey: {SafeReturnPath(returnPath)}}.Encode()
}

func LogoutURL(returnPath string) string {
	return LogoutPath + "?" + url.Values{ReturnKey: {SafeReturnPath(returnPath)}}.Encode()
}
