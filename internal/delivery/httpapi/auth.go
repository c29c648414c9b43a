package httpapi

import (
	"context"
	"net/http"
	"strconv"
)

// UserIDHeader carries the Telegram user ID, set by the Mini App gateway after it has
// verified the init data.
const UserIDHeader = "X-User-ID"

type userIDKey struct{}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "missing user ID")
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "invalid user ID")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	})
}

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}
