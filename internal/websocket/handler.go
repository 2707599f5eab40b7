package websocket

import (
	"log"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/rmoliveira/feira/internal/auth"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and runs them as clients of the owner's room. It expects the
// owner identity to already be in the request context.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := auth.OwnerID(r.Context())
		if ownerID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Clients connect from arbitrary origins
		})
		if err != nil {
			log.Printf("websocket: accept: %v", err)
			return
		}

		client := NewClient(hub, ownerID, conn)
		client.Run(r.Context())
	}
}
