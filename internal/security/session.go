package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionID returns a fresh UUID. It keys live game sessions
// and OAuth state values.
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsSecureRequest reports whether the request arrived over HTTPS,
// directly or via a proxy that sets X-Forwarded-Proto.
func IsSecureRequest(r *http.Request) bool {
	return r.TLS != nil ||
		r.Header.Get("X-Forwarded-Proto") == "https" ||
		r.URL.Scheme == "https"
}

// CreateTempCookie builds a short-lived HttpOnly cookie. It carries
// OAuth state across the redirect round trip.
func CreateTempCookie(r *http.Request, name, value string, ttl time.Duration) *http.Cookie {
	c := baseCookie(r, name)
	c.Value = value
	c.Expires = time.Now().Add(ttl)
	c.MaxAge = int(ttl.Seconds())
	return c
}

// CreateDeleteCookie builds a cookie that clears name on the client.
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	c := baseCookie(r, name)
	c.MaxAge = -1
	return c
}

func baseCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
