package middleware

import (
	"context"
	"net/http"

	"github.com/Dan9191/blog-service/internal/session"
	"github.com/gorilla/mux"
)

type ctxKey int

const sessionKey ctxKey = iota

// RequireLogin guards protected routes. Requests without a logged-in
// session get a notice and a redirect to the login page; the wrapped
// handler never runs. Logged-in requests proceed with the session on
// the request context.
func RequireLogin(sessions *session.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessions.Get(r)
			if !sess.LoggedIn {
				sessions.AddFlash(w, "danger", "Unauthorized, please login")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by RequireLogin.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(session.Session)
	return sess, ok
}
