// Package cookie provides a small HTTP cookie manager on top of net/http.
//
// A Manager carries default cookie attributes (path, domain, flags, SameSite)
// that every Set call starts from; per-call Option values override them
// without touching the defaults. Build assembles a cookie from explicit
// options only, which is what callers use when the full attribute set is
// already decided elsewhere (for example by a session configuration) and the
// result is attached with Write.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/cookie"
//
//	man := cookie.New(cookie.WithSecure(true))
//
//	http.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
//	    _ = man.Set(w, "theme", "dark", cookie.WithMaxAge(3600))
//	})
//
//	c := cookie.Build("sid", id,
//	    cookie.WithPath("/"),
//	    cookie.WithExpires(time.Now().Add(24*time.Hour)),
//	)
//	_ = man.Write(w, c)
//
// # Errors
//
// ErrCookieNotFound is returned by Get when the request carries no cookie with
// the given name. ErrInvalidName is returned by Write for cookies net/http
// would refuse to serialize.
//
// Cookie values are sent as-is: this package does not sign or encrypt them.
package cookie
