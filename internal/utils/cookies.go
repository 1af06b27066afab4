package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieOptions holds the security attributes for the auth cookies.
// Production uses Secure + SameSite=None (cross-site frontend), everything
// else relaxes to SameSite=Lax without Secure so local HTTP works.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

func NewCookieOptions(isProduction bool) CookieOptions {
	if isProduction {
		return CookieOptions{Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookieOptions{Secure: false, SameSite: http.SameSiteLaxMode}
}

// Set writes an http-only cookie with the configured security attributes.
func (o CookieOptions) Set(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(o.SameSite)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", o.Secure, true)
}

// Clear expires the named cookies.
func (o CookieOptions) Clear(c *gin.Context, names ...string) {
	c.SetSameSite(o.SameSite)
	for _, name := range names {
		c.SetCookie(name, "", -1, "/", "", o.Secure, true)
	}
}
