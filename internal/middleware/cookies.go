package middleware

import (
	"net/http"

	"games_storefront/internal/config"

	"github.com/gorilla/securecookie"
)

// CookieCutter signs and encrypts cookies with the current key pair and
// still accepts cookies made with the previous one.
type CookieCutter struct {
	Previous *securecookie.SecureCookie
	Current  *securecookie.SecureCookie
	Secure   bool
}

func NewCookieCutter(cfg config.Session) *CookieCutter {
	cc := &CookieCutter{
		Current: securecookie.New([]byte(cfg.HashKey), []byte(cfg.BlockKey)),
		Secure:  cfg.Secure,
	}
	if cfg.PrevHashKey != "" {
		var block []byte
		if cfg.PrevBlockKey != "" {
			block = []byte(cfg.PrevBlockKey)
		}
		cc.Previous = securecookie.New([]byte(cfg.PrevHashKey), block)
	}
	return cc
}

func (cc *CookieCutter) SetSecureCookie(w http.ResponseWriter, name, value string, maxAge int) error {
	encoded, err := securecookie.EncodeMulti(name, value, cc.Current)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		Secure:   cc.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}

func (cc *CookieCutter) GetSecureCookie(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", err
	}

	codecs := []securecookie.Codec{cc.Current}
	if cc.Previous != nil {
		codecs = append(codecs, cc.Previous)
	}

	var value string
	if err := securecookie.DecodeMulti(name, cookie.Value, &value, codecs...); err != nil {
		return "", err
	}
	return value, nil
}

func (cc *CookieCutter) UnsetCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Secure:   cc.Secure,
		HttpOnly: true,
		MaxAge:   -1,
	})
}
