package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// cookieStore keeps the found set in the client's cookie, the way the
// browser build always did: one cookie, comma-separated ids, fixed Max-Age.
// The value is query-escaped since net/http drops bytes a cookie cannot carry.
type cookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

func (c *cookieStore) Get(key string) (string, bool, error) {
	ck, err := c.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cookie: %w", err)
	}
	v, err := url.QueryUnescape(ck.Value)
	if err != nil {
		// malformed: start from an empty set
		return "", false, nil
	}
	return v, true, nil
}

func (c *cookieStore) Set(key, value string, ttl time.Duration) error {
	ck := &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		ck.MaxAge = int(ttl / time.Second)
		ck.Expires = time.Now().Add(ttl).UTC()
	}
	http.SetCookie(c.w, ck)
	return nil
}
