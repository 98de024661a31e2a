package api

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/http/response"
)

// CSV import and export bypass huma: import consumes multipart uploads and
// export streams an attachment, neither of which fits the JSON envelope.
func (s *Server) registerCSVRoutes() {
	s.router.Post("/api/v1/books/import", s.handleImportBooks)
	s.router.Get("/api/v1/books/export", s.handleExportBooks)
}

func (s *Server) handleImportBooks(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImportSize)

	reader, err := importBody(r)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}
	defer reader.Close()

	result, err := s.services.Book.ImportBooks(r.Context(), userID, reader)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// importBody returns the CSV payload from either a multipart "file" field
// or the raw request body.
func importBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, nil
	}

	if err := r.ParseMultipartForm(MaxImportSize); err != nil {
		return nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (s *Server) handleExportBooks(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shelfmark-export.csv"`)

	if err := s.services.Book.ExportBooks(r.Context(), userID, w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("CSV export failed", "user_id", userID, "error", err)
	}
}
