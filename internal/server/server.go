package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rmoliveira/feira/internal/backup"
	"github.com/rmoliveira/feira/internal/checkout"
	"github.com/rmoliveira/feira/internal/handler"
	"github.com/rmoliveira/feira/internal/list"
	"github.com/rmoliveira/feira/internal/middleware"
	"github.com/rmoliveira/feira/internal/receipt"
	"github.com/rmoliveira/feira/internal/store"
	ws "github.com/rmoliveira/feira/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	shoppingH     *handler.ShoppingHandler
	receiptH      *handler.ReceiptHandler
	checkoutH     *handler.CheckoutHandler
	priceHistoryH *handler.PriceHistoryHandler
	backupH       *handler.BackupHandler
	backupManager *backup.Manager
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	shoppingStore := store.NewShoppingStore(db)
	historyStore := store.NewPriceHistoryStore(db)
	receiptStore := store.NewReceiptStore(db)
	backupStore := store.NewBackupStore(db)

	registry := list.NewRegistry(shoppingStore, historyStore, logger.With("component", "list"))
	receipts := receipt.NewManager(receiptStore)
	coordinator := checkout.NewCoordinator(registry, receipts)

	backupLogger := logger.With("component", "backup")
	backupMgr := backup.NewManager(backupCfg, db, backupStore, func(s backup.Status) {
		backupLogger.Info("backup status", "state", s.State, "in_progress", s.InProgress, "error", s.Error)
	})

	return &Server{
		db:            db,
		hub:           hub,
		shoppingH:     handler.NewShoppingHandler(registry, hub, logger.With("component", "shopping")),
		receiptH:      handler.NewReceiptHandler(receipts, hub, logger.With("component", "receipt")),
		checkoutH:     handler.NewCheckoutHandler(coordinator, hub, logger.With("component", "checkout")),
		priceHistoryH: handler.NewPriceHistoryHandler(historyStore, logger.With("component", "price_history")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, backupLogger),
		backupManager: backupMgr,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// BackupManager exposes the backup scheduler so main can start and stop it.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// Handler builds the full middleware and routing stack.
func (s *Server) Handler() http.Handler {
	outerMux := http.NewServeMux()

	outerMux.HandleFunc("GET /health", s.healthHandler)

	apiMux := http.NewServeMux()
	s.registerAPIRoutes(apiMux)
	outerMux.Handle("/api/", middleware.RequireOwner(apiMux))
	outerMux.Handle("GET /ws", middleware.RequireOwner(ws.HandleWebSocket(s.hub)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Active list
	mux.HandleFunc("GET /api/list", s.shoppingH.GetList)
	mux.HandleFunc("GET /api/subtotal", s.shoppingH.Subtotal)

	// Lists
	mux.HandleFunc("GET /api/lists", s.shoppingH.Lists)
	mux.HandleFunc("POST /api/lists", s.shoppingH.CreateList)
	mux.HandleFunc("PUT /api/lists/{id}", s.shoppingH.RenameList)
	mux.HandleFunc("POST /api/lists/{id}/activate", s.shoppingH.ActivateList)

	// Categories
	mux.HandleFunc("POST /api/categories", s.shoppingH.CreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.shoppingH.RenameCategory)
	mux.HandleFunc("POST /api/categories/{category_id}/items", s.shoppingH.CreateItem)

	// Items
	mux.HandleFunc("POST /api/items", s.shoppingH.CreateItemAuto)
	mux.HandleFunc("PUT /api/items/{id}", s.shoppingH.RenameItem)
	mux.HandleFunc("PUT /api/items/{id}/quantity", s.shoppingH.UpdateQuantity)
	mux.HandleFunc("PUT /api/items/{id}/price", s.shoppingH.UpdatePrice)
	mux.HandleFunc("POST /api/items/{id}/check", s.shoppingH.CheckItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.shoppingH.DeleteItem)

	// Checkout + receipts
	mux.HandleFunc("GET /api/checkout", s.checkoutH.Defaults)
	mux.HandleFunc("POST /api/checkout", s.rateLimitedHandler(s.checkoutH.Confirm))
	mux.HandleFunc("GET /api/receipts", s.receiptH.List)
	mux.HandleFunc("GET /api/receipts/{id}", s.receiptH.Get)
	mux.HandleFunc("DELETE /api/receipts/{id}", s.receiptH.Delete)

	// Price history
	mux.HandleFunc("GET /api/price-history", s.priceHistoryH.List)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("POST /api/backups", s.backupH.Run)
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)
}

// rateLimitedHandler wraps a handler with per-client rate limiting.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return rl(h).ServeHTTP
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "error": "database unreachable"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"backup": s.backupManager.Status().State,
	})
}

// StartRateLimiterCleanup prunes expired rate limit entries periodically
// until the done channel closes.
func (s *Server) StartRateLimiterCleanup(done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.rateLimiter.Cleanup()
			case <-done:
				return
			}
		}
	}()
}
