// Package web exposes the inventory over HTTP: a JSON API for every store
// operation and a websocket feed of state snapshots for the UI.
package web

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// Inventory is the store surface the server depends on.
type Inventory interface {
	Snapshot() types.State
	Subscribe(fn func(types.State)) (cancel func())

	CreateUnit(name string, rows, cols int) (string, error)
	RenameUnit(unitID, name string) error
	DeleteUnit(unitID string) ([]string, error)
	Unit(unitID string) (types.StorageUnit, error)
	Units() []types.StorageUnit

	CreateDefinition(name, emoji, color string) (string, error)
	Definitions() []types.ItemDefinition
	Definition(defID string) (types.ItemDefinition, error)

	CreateItem(defID, label string) (string, error)
	UpdateItem(itemID, label, notes string) error
	DeleteItem(itemID string) error
	Item(itemID string) (types.ItemInstance, error)
	Items() []types.ItemInstance

	PlaceItem(itemID, unitID string, row, col int) error
	RemoveItemFromSlot(unitID string, row, col int) error
	ReturnToInventory(itemID string) error
	FindItemLocation(itemID string) (types.ItemLocation, error)
	ListUnplacedItems() []string
}

// Server routes API and websocket requests to an Inventory.
type Server struct {
	inv  Inventory
	mux  *http.ServeMux
	log  logrus.FieldLogger
	feed *feed
}

// NewServer builds a server and starts forwarding store changes to
// websocket clients. Call Close to stop forwarding.
func NewServer(inv Inventory, log logrus.FieldLogger) *Server {
	s := &Server{
		inv:  inv,
		mux:  http.NewServeMux(),
		log:  log,
		feed: newFeed(log),
	}
	s.feed.cancel = inv.Subscribe(s.feed.broadcast)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/state", s.handleState)

	s.mux.HandleFunc("GET /api/units", s.handleListUnits)
	s.mux.HandleFunc("POST /api/units", s.handleCreateUnit)
	s.mux.HandleFunc("GET /api/units/{id}", s.handleGetUnit)
	s.mux.HandleFunc("PATCH /api/units/{id}", s.handleRenameUnit)
	s.mux.HandleFunc("DELETE /api/units/{id}", s.handleDeleteUnit)
	s.mux.HandleFunc("DELETE /api/units/{id}/slots/{row}/{col}", s.handleClearSlot)

	s.mux.HandleFunc("GET /api/definitions", s.handleListDefinitions)
	s.mux.HandleFunc("POST /api/definitions", s.handleCreateDefinition)

	s.mux.HandleFunc("GET /api/items", s.handleListItems)
	s.mux.HandleFunc("POST /api/items", s.handleCreateItem)
	s.mux.HandleFunc("PATCH /api/items/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)
	s.mux.HandleFunc("GET /api/items/{id}/location", s.handleLocateItem)
	s.mux.HandleFunc("POST /api/items/{id}/place", s.handlePlaceItem)

	s.mux.HandleFunc("GET /api/inventory", s.handleUnplaced)
	s.mux.HandleFunc("POST /api/drop", s.handleDrop)

	s.mux.HandleFunc("GET /ws", s.handleWS)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func requestLogger(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.log, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.feed.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops forwarding store changes and disconnects websocket clients.
func (s *Server) Close() {
	s.feed.cancel()
	s.feed.closeAll()
}
