package server

import (
	"net/http"
	"os"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
)

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.Balance(r.Context(), ownerID(r))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "credits", "read balance", "", err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromBalance(balance))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	flags, err := s.profiles.Get(r.Context(), ownerID(r))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "profile", "read", "", err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromFlags(flags))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req api.Profile
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	owner := ownerID(r)
	if err := s.profiles.Put(r.Context(), owner, req.Flags()); err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "profile", "save", "", err))
		return
	}

	s.logger.Info("profile updated",
		logging.String(logging.FieldOwnerID, owner),
		logging.Bool("auto_feature_image", req.AutoFeatureImage),
		logging.Bool("auto_publish", req.AutoPublish),
		logging.String(logging.FieldEventType, "profile_updated"),
	)
	s.writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	summary := s.engine.Status(r.Context())

	status := api.DaemonStatus{
		Running:     true,
		PID:         os.Getpid(),
		QueueDBPath: s.store.Path(),
		Engine:      api.FromStatusSummary(summary),
	}
	if s.writer != nil {
		if err := s.writer.HealthCheck(r.Context()); err != nil {
			status.WriterDetail = err.Error()
		} else {
			status.WriterReachable = true
		}
	} else {
		status.WriterDetail = "writer service not configured"
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Health(r.Context()); err != nil {
		s.writeErrorMessage(w, http.StatusServiceUnavailable, "queue database unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
