package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

func allowedDocumentExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedDocumentMIME(m, filename string) bool {
	m = strings.ToLower(m)
	// Some detectors classify rich plain text as text/html; accept any
	// text/* for .txt files.
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(m, "text/") {
		return true
	}
	if strings.HasPrefix(m, "text/plain") {
		return true
	}
	return m == "application/pdf" ||
		m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// DocumentUploadHandler extracts, chunks and indexes an uploaded document
// for the caller's session.
func (s *Server) DocumentUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, ok := s.readUpload(w, r, "file")
		if !ok {
			return
		}
		defer func() { _ = file.Close() }()

		if !allowedDocumentExt(header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code:    "INVALID_ARGUMENT",
				Message: "unsupported document format (want .pdf, .docx or .txt)",
				Details: map[string]any{"filename": header.Filename},
			}})
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if m := mimetype.Detect(data); !allowedDocumentMIME(m.String(), header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code:    "INVALID_ARGUMENT",
				Message: "unsupported document content",
				Details: map[string]any{"mime": m.String(), "filename": header.Filename},
			}})
			return
		}

		path, cleanup, err := saveTemp(data)
		if err != nil {
			writeError(w, r, fmt.Errorf("save upload: %w", err), nil)
			return
		}
		defer cleanup()

		info, err := s.Documents.Process(r.Context(), SessionFrom(r), header.Filename, path)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"document_id": info.ID,
			"filename":    info.Filename,
			"chunks":      info.Chunks,
		})
	}
}

// DocumentAskHandler answers a question grounded in one of the session's
// indexed documents.
func (s *Server) DocumentAskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DocumentID string `json:"document_id" validate:"required,max=100"`
			Question   string `json:"question" validate:"required,max=2000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		answer, err := s.Documents.Ask(r.Context(), SessionFrom(r), req.DocumentID, req.Question)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
	}
}
