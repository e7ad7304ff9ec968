package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie name shared by the cart and the signed-in user.
const SessionName = "session"

// NewSessionStore creates the cookie store backing carts and sign-in state
func NewSessionStore(secret string, secure bool) sessions.Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // one week
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CurrentUserID returns the signed-in user's id from the session, or nil for
// guests
func CurrentUserID(store sessions.Store, r *http.Request) *int {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return nil
	}

	id, ok := session.Values["user_id"].(int)
	if !ok || id <= 0 {
		return nil
	}
	return &id
}

// SetCurrentUserID records the signed-in user's id in the session. A nil id
// signs the user out.
func SetCurrentUserID(store sessions.Store, w http.ResponseWriter, r *http.Request, id *int) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return err
	}

	if id == nil {
		delete(session.Values, "user_id")
	} else {
		session.Values["user_id"] = *id
	}
	return session.Save(r, w)
}

// SecureHeaders adds security headers to responses
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
