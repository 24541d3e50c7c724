package httpserver

import (
	"net/http"
)

// YouTubeProcessHandler fetches and indexes the captions of a video.
func (s *Server) YouTubeProcessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url" validate:"required,max=500"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		info, err := s.Videos.Process(r.Context(), SessionFrom(r), req.URL)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"video_id": info.VideoID,
			"chunks":   info.Chunks,
		})
	}
}

// YouTubeAskHandler answers a question from an indexed video transcript.
func (s *Server) YouTubeAskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			VideoID  string `json:"video_id" validate:"required,max=20"`
			Question string `json:"question" validate:"required,max=2000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		answer, err := s.Videos.Ask(r.Context(), SessionFrom(r), req.VideoID, req.Question)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
	}
}
