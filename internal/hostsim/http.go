package hostsim

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/discovery"
	"github.com/siadrive/siadrive-ui/internal/logging"
)

// Status is the body of GET /api/status.
type Status struct {
	Online           bool             `json:"online"`
	WalletConfigured bool             `json:"walletConfigured"`
	WalletLocked     bool             `json:"walletLocked"`
	Mounted          string           `json:"mounted,omitempty"`
	Drives           []string         `json:"drives"`
	Allowance        bridge.Allowance `json:"allowance"`
	Sessions         int              `json:"sessions"`
}

// EnvironmentChange is the body of POST /api/environment. Nil fields are
// left alone.
type EnvironmentChange struct {
	Online *bool `json:"online,omitempty"`
	Locked *bool `json:"locked,omitempty"`
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(discovery.DefaultPath, s.handleBridge).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/environment", s.handleEnvironment).Methods(http.MethodPost)
	api.HandleFunc("/drive/eject", s.handleEject).Methods(http.MethodPost)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.backend.Snapshot()
	writeJSON(w, http.StatusOK, Status{
		Online:           snap.IsOnline,
		WalletConfigured: snap.IsWalletConfigured,
		WalletLocked:     snap.IsWalletLocked,
		Mounted:          s.backend.Mounted(),
		Drives:           s.backend.AvailableDrives(),
		Allowance:        s.backend.Allowance(),
		Sessions:         s.ActiveSessions(),
	})
}

// handleEnvironment changes connectivity or the wallet lock and tells
// every UI to reload.
func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	var change EnvironmentChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		http.Error(w, "malformed body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if change.Online != nil {
		s.backend.SetOnline(*change.Online)
	}
	if change.Locked != nil && *change.Locked && s.backend.Lock() {
		// Sent before the environment push; the UI stops listening once
		// it reloads.
		logging.Info("Locking dropped the mounted drive")
		s.Broadcast(bridge.DriveUnmountedUpdate{})
		s.Broadcast(bridge.DrivesUpdate{Drives: s.backend.AvailableDrives()})
	}

	snap := s.backend.Snapshot()
	logging.Info("Environment changed",
		zap.Bool("online", snap.IsOnline),
		zap.Bool("wallet_locked", snap.IsWalletLocked),
	)
	s.Broadcast(bridge.EnvironmentUpdate{Snapshot: snap})
	writeJSON(w, http.StatusOK, snap)
}

// handleEject simulates the volume disappearing outside the UI.
func (s *Server) handleEject(w http.ResponseWriter, r *http.Request) {
	if !s.backend.Eject() {
		http.Error(w, ErrNotMounted.Error(), http.StatusConflict)
		return
	}
	logging.Info("Drive ejected")
	s.Broadcast(bridge.DriveUnmountedUpdate{})
	s.Broadcast(bridge.DrivesUpdate{Drives: s.backend.AvailableDrives()})
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write response", zap.Error(err))
	}
}
