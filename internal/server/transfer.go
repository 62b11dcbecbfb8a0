package server

import (
	"net/http"
	"strings"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/importer"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/tabular"
)

// Spreadsheets are small; anything bigger than this is a mistake.
const maxImportBytes = 10 << 20

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "import", "read upload", `multipart field "file" is required`, err))
		return
	}
	defer file.Close()

	format, err := tabular.DetectFormat(header.Filename)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "import", "detect format", "", err))
		return
	}
	sheet, err := tabular.Read(file, format)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "import", "parse file", "", err))
		return
	}

	result := importer.Normalize(sheet)
	if len(result.Items) == 0 {
		message := "import produced no valid items"
		if len(result.Errors) > 0 {
			message += ": " + strings.Join(result.Errors, "; ")
		}
		s.writeError(w, r, services.Wrap(services.ErrValidation, "import", "normalize rows", message, nil))
		return
	}

	owner := ownerID(r)
	created := 0
	for _, row := range result.Items {
		item := &queue.Item{
			OwnerID:         owner,
			MainKeyword:     row.MainKeyword,
			ServiceURL:      row.ServiceURL,
			ClusterKeywords: row.ClusterKeywords,
			Status:          row.Status,
		}
		if err := s.store.Insert(r.Context(), item); err != nil {
			s.writeError(w, r, services.Wrap(services.ErrPersistence, "import", "insert row", "", err))
			return
		}
		created++
	}

	s.logger.Info("import completed",
		logging.String(logging.FieldOwnerID, owner),
		logging.String("file", header.Filename),
		logging.Int("created", created),
		logging.Int("rejected", len(result.Errors)),
		logging.String(logging.FieldEventType, "import_completed"),
	)
	s.writeJSON(w, http.StatusOK, api.ImportReport{Created: created, Errors: result.Errors})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := tabular.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "export", "parse format", "", err))
		return
	}

	owner := ownerID(r)
	items, err := s.store.AllForOwner(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrPersistence, "export", "list items", "", err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="claw-items`+format.Ext()+`"`)
	if err := tabular.Write(w, format, importer.ExportSheet(items)); err != nil {
		// Headers are gone; all we can do is log.
		s.logger.Error("export write failed",
			logging.String(logging.FieldOwnerID, owner),
			logging.Error(err),
			logging.String(logging.FieldEventType, "export_failed"),
		)
	}
}
