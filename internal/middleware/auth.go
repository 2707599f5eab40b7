package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rmoliveira/feira/internal/auth"
)

// OwnerHeader names the header carrying the client's owner ID.
const OwnerHeader = "X-Owner-ID"

// RequireOwner rejects requests without a well-formed owner ID and stores
// the identity in the request context. The ID is an opaque UUID minted by
// the client; it scopes every query but is not a credential.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(OwnerHeader)
		if raw == "" {
			raw = r.URL.Query().Get("owner")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "missing or malformed owner id"})
			return
		}

		ctx := auth.WithIdentity(r.Context(), auth.Identity{OwnerID: id.String()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
