package httpserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

func allowedDatasetExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".csv") || strings.HasSuffix(n, ".json")
}

// allowedDatasetMIME accepts text/* for CSV (detectors disagree on the
// exact subtype) and application/json for JSON files.
func allowedDatasetMIME(m string) bool {
	m = strings.ToLower(m)
	return strings.HasPrefix(m, "text/") || strings.HasPrefix(m, "application/json")
}

// DatasetUploadHandler registers a CSV or JSON file as a queryable table
// for the caller's session.
func (s *Server) DatasetUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, ok := s.readUpload(w, r, "file")
		if !ok {
			return
		}
		defer func() { _ = file.Close() }()

		if !allowedDatasetExt(header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code:    "INVALID_ARGUMENT",
				Message: "unsupported dataset format (want .csv or .json)",
				Details: map[string]any{"filename": header.Filename},
			}})
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if m := mimetype.Detect(data); !allowedDatasetMIME(m.String()) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code:    "INVALID_ARGUMENT",
				Message: "unsupported dataset content",
				Details: map[string]any{"mime": m.String(), "filename": header.Filename},
			}})
			return
		}

		info, err := s.Datasets.Upload(r.Context(), SessionFrom(r), header.Filename, bytes.NewReader(data))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// DatasetAskHandler answers a natural-language question over the session's
// uploaded datasets.
func (s *Server) DatasetAskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question string `json:"question" validate:"required,max=2000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		ans, err := s.Datasets.Ask(r.Context(), SessionFrom(r), req.Question)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		resp := map[string]any{"answer": ans.Answer}
		if ans.SQLQuery != "" {
			resp["sql"] = ans.SQLQuery
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
