package httpserver

import (
	"net/http"
)

// CodingGenerateHandler generates a new exercise for the session.
func (s *Server) CodingGenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic      string `json:"topic" validate:"required,max=200"`
			Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
			Language   string `json:"language" validate:"required,max=50"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		exercise, err := s.Coding.Generate(r.Context(), SessionFrom(r), req.Topic, req.Difficulty, req.Language)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, exercise)
	}
}

// CodingRunHandler executes free-form code in the sandbox.
func (s *Server) CodingRunHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Language string `json:"language" validate:"required,max=50"`
			Code     string `json:"code" validate:"required,max=50000"`
			Stdin    string `json:"stdin" validate:"max=10000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		result, err := s.Coding.Run(r.Context(), req.Language, req.Code, req.Stdin)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// CodingValidateHandler runs the submission against the exercise's test
// cases and returns model feedback alongside the measured results.
func (s *Server) CodingValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code" validate:"required,max=50000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		feedback, summary, err := s.Coding.Validate(r.Context(), SessionFrom(r), req.Code)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"feedback": feedback,
			"tests":    summary,
		})
	}
}

// CodingHintHandler returns progressive hints for the active exercise.
func (s *Server) CodingHintHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hints, err := s.Coding.Hint(r.Context(), SessionFrom(r))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"hints": hints})
	}
}

// CodingSolutionHandler returns a reference solution for the active exercise.
func (s *Server) CodingSolutionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		solution, err := s.Coding.Solution(r.Context(), SessionFrom(r))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, solution)
	}
}

// CodingRuntimesHandler lists the sandbox's available language versions.
func (s *Server) CodingRuntimesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runtimes, err := s.Coding.Runtimes(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"runtimes": runtimes})
	}
}
