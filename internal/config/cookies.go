package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccountClaims struct {
	AccountId int64  `json:"account_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

func NewAccountClaims(accountId int64, username string) *AccountClaims {
	return &AccountClaims{AccountId: accountId, Username: username}
}

// Cookies issues and parses the split auth cookie pair: the token's
// header and payload in a JS-readable cookie, its signature in an
// HttpOnly one.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func NewCookies(jwt *JWT) (*Cookies, error) {
	domain, ok := os.LookupEnv("COOKIES_DOMAIN")
	if !ok {
		return nil, fmt.Errorf("COOKIES_DOMAIN env variable is not set")
	}

	secure := true
	if v, ok := os.LookupEnv("COOKIES_SECURE"); ok {
		secure = v != "0"
	}

	sameSite := http.SameSiteStrictMode
	switch strings.ToUpper(os.Getenv("COOKIES_SAMESITE")) {
	case "DEFAULT":
		sameSite = http.SameSiteDefaultMode
	case "LAX":
		sameSite = http.SameSiteLaxMode
	case "NONE":
		sameSite = http.SameSiteNoneMode
	}

	return &Cookies{
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		jwt:      jwt,
	}, nil
}

func (c *Cookies) pair(value, signature string, maxAge time.Duration) []*http.Cookie {
	expires := time.Now().Add(maxAge)
	return []*http.Cookie{
		{
			Name:     "auth",
			Path:     "/",
			Value:    value,
			Expires:  expires,
			Domain:   c.Domain,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		},
		{
			Name:     "sign",
			Path:     "/",
			Value:    signature,
			Expires:  expires,
			HttpOnly: true,
			Domain:   c.Domain,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		},
	}
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	for _, cookie := range c.pair(
		parts[0]+"."+parts[1], parts[2], c.jwt.TokenLifetime,
	) {
		http.SetCookie(w, cookie)
	}
	return nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, cookie := range c.pair("delete", "delete", 0) {
		cookie.Expires = time.Time{}
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (c *Cookies) ParseAccountClaims(r *http.Request) (*AccountClaims, error) {
	authCookie, err := r.Cookie("auth")
	if err != nil {
		return nil, err
	}
	signCookie, err := r.Cookie("sign")
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(
		authCookie.Value+"."+signCookie.Value, &AccountClaims{},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccountClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
