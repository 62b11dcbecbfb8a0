package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
)

func itemID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "itemID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrValidation, "request", "parse id", "invalid item id "+raw, nil)
	}
	return id, nil
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req api.CreateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.MainKeyword) == "" {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "request", "check keyword", "main keyword is required", nil))
		return
	}

	owner := ownerID(r)
	item, err := s.store.NewItem(r.Context(), owner, req.MainKeyword, req.ServiceURL, req.ClusterKeywords)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "insert", "", err))
		return
	}

	s.logger.Info("item enqueued",
		logging.String(logging.FieldOwnerID, owner),
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String(logging.FieldEventType, "item_enqueued"),
	)
	s.writeJSON(w, http.StatusCreated, api.ItemResponse{Item: api.FromItem(item)})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	query := r.URL.Query()

	var statuses []queue.Status
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, ok := queue.ParseStatus(raw)
		if !ok {
			s.writeError(w, r, services.Wrap(services.ErrValidation, "request", "parse status", "unknown status "+raw, nil))
			return
		}
		statuses = append(statuses, status)
	}

	limit, err := queryInt(query.Get("limit"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "request", "parse limit", "limit must be a number", nil))
		return
	}
	offset, err := queryInt(query.Get("offset"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "request", "parse offset", "offset must be a number", nil))
		return
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.store.List(r.Context(), owner, limit, offset, statuses...)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "list", "", err))
		return
	}
	counts, err := s.store.Counts(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "count", "", err))
		return
	}

	s.writeJSON(w, http.StatusOK, api.ListResponse{
		Items:  api.FromItems(items),
		Total:  total,
		Limit:  queue.NormalizeLimit(limit),
		Offset: offset,
		Counts: api.MergeQueueStats(counts),
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.store.GetForOwner(r.Context(), ownerID(r), id)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "get", "", err))
		return
	}
	if item == nil {
		s.writeError(w, r, services.Wrap(services.ErrNotFound, "items", "get", "item not found", nil))
		return
	}
	s.writeJSON(w, http.StatusOK, api.ItemResponse{Item: api.FromItem(item)})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req api.UpdateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	owner := ownerID(r)
	item, err := s.store.GetForOwner(r.Context(), owner, id)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "get", "", err))
		return
	}
	if item == nil {
		s.writeError(w, r, services.Wrap(services.ErrNotFound, "items", "edit", "item not found", nil))
		return
	}
	if !item.Editable() {
		s.writeError(w, r, services.Wrap(services.ErrConflict, "items", "edit", "item is "+string(item.Status)+" and can no longer be edited", nil))
		return
	}

	keyword := item.MainKeyword
	if req.MainKeyword != nil {
		keyword = *req.MainKeyword
	}
	serviceURL := item.ServiceURL
	if req.ServiceURL != nil {
		serviceURL = *req.ServiceURL
	}
	cluster := item.ClusterKeywords
	if req.ClusterKeywords != nil {
		cluster = *req.ClusterKeywords
	}
	if strings.TrimSpace(keyword) == "" {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "items", "edit", "main keyword is required", nil))
		return
	}

	updated, err := s.store.UpdateRequestFields(r.Context(), owner, id, keyword, serviceURL, cluster)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "update", "", err))
		return
	}
	if !updated {
		// The row started processing between the read and the guarded write.
		s.writeError(w, r, services.Wrap(services.ErrConflict, "items", "edit", "item changed state during edit", nil))
		return
	}

	item, err = s.store.GetForOwner(r.Context(), owner, id)
	if err != nil || item == nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "reload", "", err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.ItemResponse{Item: api.FromItem(item)})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	owner := ownerID(r)
	removed, err := s.store.Remove(r.Context(), owner, id)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "items", "delete", "", err))
		return
	}
	if !removed {
		s.writeError(w, r, services.Wrap(services.ErrNotFound, "items", "delete", "item not found", nil))
		return
	}

	s.logger.Info("item deleted",
		logging.String(logging.FieldOwnerID, owner),
		logging.Int64(logging.FieldItemID, id),
		logging.String(logging.FieldEventType, "item_deleted"),
	)
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
