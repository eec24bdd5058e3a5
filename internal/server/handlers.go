package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	bizdoc "github.com/alnah/go-bizdoc"
	"github.com/alnah/go-bizdoc/internal/fileutil"
)

var errBadRequest = errors.New("bad request")

// createRequest is the POST /api/documents body.
type createRequest struct {
	Type     bizdoc.DocumentType `json:"type"`
	Title    string              `json:"title"`
	Content  json.RawMessage     `json:"content"`
	FormData bizdoc.FormData     `json:"formData"`
	Status   bizdoc.Status       `json:"status"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit %q", errBadRequest, raw))
			return
		}
		limit = n
	}

	docs, err := s.docs.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	doc := &bizdoc.Document{
		Type:     req.Type,
		Title:    req.Title,
		Content:  req.Content,
		FormData: req.FormData,
		Status:   req.Status,
	}
	if err := s.docs.Create(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/documents/"+url.PathEscape(doc.ID))
	s.writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	s.serveRendering(w, r, s.renderer.GeneratePDF, bizdoc.ContentTypePDF, ".pdf")
}

func (s *Server) handlePPTX(w http.ResponseWriter, r *http.Request) {
	s.serveRendering(w, r, s.renderer.GeneratePPTX, bizdoc.ContentTypePPTX, ".pptx")
}

type renderFunc func(ctx context.Context, doc *bizdoc.Document) ([]byte, error)

func (s *Server) serveRendering(w http.ResponseWriter, r *http.Request, render renderFunc, contentType, ext string) {
	doc, err := s.docs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := render(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", contentDisposition(doc.Title, ext))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("writing rendered file", zap.Error(err))
	}
}

// contentDisposition builds an attachment header with an ASCII fallback
// name and the RFC 5987 UTF-8 name.
func contentDisposition(title, ext string) string {
	ascii := fileutil.ASCIIFilename(title) + ext
	utf8Name := fileutil.SanitizeFilename(title) + ext
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(utf8Name))
}

// statusFor maps an error to its HTTP status and category label.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, bizdoc.ErrNilDocument),
		errors.Is(err, bizdoc.ErrInvalidDocumentType),
		errors.Is(err, bizdoc.ErrEmptyTitle),
		errors.Is(err, bizdoc.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_request"
	}

	category := bizdoc.CategoryOf(err)
	switch category {
	case bizdoc.CategoryNotFound:
		return http.StatusNotFound, string(category)
	case bizdoc.CategoryNotReady:
		return http.StatusConflict, string(category)
	case bizdoc.CategoryEngineCrashed:
		return http.StatusServiceUnavailable, string(category)
	case bizdoc.CategoryTimeout:
		return http.StatusGatewayTimeout, string(category)
	case bizdoc.CategoryFailed:
		return http.StatusInternalServerError, string(category)
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, category := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("category", category),
			zap.Error(err),
		)
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	s.writeJSON(w, status, errorResponse{Error: category, Message: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("encoding response", zap.Error(err))
	}
}
