package server

import (
	"net/http"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
)

func (s *Server) handleProcessItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	owner := ownerID(r)
	receipt, err := s.engine.ProcessItem(r.Context(), owner, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("item admitted",
		logging.String(logging.FieldOwnerID, owner),
		logging.Int64(logging.FieldItemID, id),
		logging.String(logging.FieldEventType, "item_admitted"),
	)
	s.writeJSON(w, http.StatusAccepted, api.FromReceipt(receipt))
}

func (s *Server) handleProcessAll(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	receipt, err := s.engine.ProcessAll(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// An empty backlog is a successful no-op, not an accepted run.
	status := http.StatusAccepted
	if receipt.Admitted == 0 {
		status = http.StatusOK
	} else {
		s.logger.Info("batch admitted",
			logging.String(logging.FieldOwnerID, owner),
			logging.Int("admitted", receipt.Admitted),
			logging.String(logging.FieldEventType, "batch_admitted"),
		)
	}
	s.writeJSON(w, status, api.FromReceipt(receipt))
}
