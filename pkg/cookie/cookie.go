package cookie

import (
	"errors"
	"net/http"
	"time"
)

// ErrCookieNotFound is returned by Get when the request carries no cookie
// with the requested name.
var ErrCookieNotFound = errors.New("cookie: not found")

// Jar writes and reads plain cookies with shared defaults. Tracking
// identifiers are opaque non-secret values the collector must read back
// verbatim, so no signing or encryption is applied.
type Jar struct {
	defaults Options
}

// New creates a Jar. Defaults are Path=/, HttpOnly, SameSite=Lax; override
// per Jar with options here or per cookie at Set time.
func New(opts ...Option) *Jar {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Jar{defaults: applyOptions(defaults, opts)}
}

// Set writes a cookie to the response using the Jar defaults merged with
// per-call options.
func (j *Jar) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	options := applyOptions(j.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
}

// Get returns the value of the named request cookie.
func (j *Jar) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete expires the named cookie on the client.
func (j *Jar) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     j.defaults.Path,
		Domain:   j.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   j.defaults.Secure,
		HttpOnly: j.defaults.HttpOnly,
		SameSite: j.defaults.SameSite,
	})
}
