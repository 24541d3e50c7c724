package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// InterviewQuestion is a generated interview question. Immutable once
// generated for a session.
type InterviewQuestion struct {
	ID        int    `json:"id"`
	Question  string `json:"question"`
	TimeLimit int    `json:"time_limit"`
}

// InterviewAnswer is a transcribed answer to one question. An unanswered
// question is represented by empty or placeholder text, never by absence
// of the element.
type InterviewAnswer struct {
	QuestionID int     `json:"question_id"`
	Text       string  `json:"answer_text"`
	Duration   float64 `json:"duration"`
}

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job tracks one asynchronous interview analysis.
type Job struct {
	ID        string
	Status    JobStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
	SessionID string
	IdemKey   *string
}

// AnalysisTaskPayload is the queue message for one interview analysis.
type AnalysisTaskPayload struct {
	JobID         string              `json:"job_id"`
	SessionID     string              `json:"session_id"`
	Role          string              `json:"role"`
	InterviewType string              `json:"interview_type"`
	Questions     []InterviewQuestion `json:"questions"`
	Answers       []InterviewAnswer   `json:"answers"`
}

// DatasetInfo describes one uploaded tabular dataset registered for a session.
type DatasetInfo struct {
	Table    string   `json:"table"`
	Filename string   `json:"filename"`
	Columns  []string `json:"columns"`
	Rows     int      `json:"rows"`
}

// DocumentInfo describes one processed document and its vector collection.
type DocumentInfo struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Collection string `json:"collection"`
	Chunks     int    `json:"chunks"`
}

// VideoInfo describes one transcribed YouTube video and its vector collection.
type VideoInfo struct {
	VideoID    string `json:"video_id"`
	URL        string `json:"url"`
	Collection string `json:"collection"`
	Chunks     int    `json:"chunks"`
}

// TranscriptSegment is one timed caption line from a video transcript.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TestCase is an executable snippet plus the exact output it must produce.
type TestCase struct {
	Code           string `json:"code"`
	ExpectedOutput string `json:"expected_output"`
}

// ExerciseExample is a worked example shown in the problem statement.
type ExerciseExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

// Exercise is an AI-generated coding problem.
type Exercise struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	InputFormat      string            `json:"input_format"`
	OutputFormat     string            `json:"output_format"`
	Constraints      []string          `json:"constraints"`
	Examples         []ExerciseExample `json:"examples"`
	VisibleTestCases []TestCase        `json:"visible_test_cases"`
	HiddenTestCases  []TestCase        `json:"hidden_test_cases"`
	Hints            []string          `json:"hints"`
	StarterCode      string            `json:"starter_code"`
}

// ExerciseState is the session-scoped state of the exercise being worked on.
type ExerciseState struct {
	Exercise Exercise `json:"exercise"`
	Language string   `json:"language"`
	Attempts int      `json:"attempts"`
}

// ValidationFeedback is the model's review of a submission after the test
// cases have been executed.
type ValidationFeedback struct {
	ValidationStatus string   `json:"validation_status"`
	Feedback         string   `json:"feedback"`
	Suggestions      []string `json:"suggestions"`
	Score            int      `json:"score"`
	TestsPassed      int      `json:"tests_passed"`
	TestsTotal       int      `json:"tests_total"`
}

// Solution is a model-generated reference solution with its explanation.
type Solution struct {
	SolutionCode string   `json:"solution_code"`
	Explanation  string   `json:"explanation"`
	Complexity   string   `json:"complexity"`
	Alternatives []string `json:"alternatives"`
}

// RunResult is the outcome of one sandboxed code execution.
type RunResult struct {
	Success  bool   `json:"success"`
	Output   string `json:"output"`
	Error    string `json:"error"`
	ExitCode int    `json:"returncode"`
}

// Repositories (ports)

type JobRepository interface {
	Create(ctx Context, j Job) (string, error)
	UpdateStatus(ctx Context, id string, status JobStatus, errMsg *string) error
	Get(ctx Context, id string) (Job, error)
	FindByIdempotencyKey(ctx Context, key string) (Job, error)
}

type AssessmentRepository interface {
	Upsert(ctx Context, jobID string, a Assessment) error
	GetByJobID(ctx Context, jobID string) (Assessment, error)
}

// Queue (port)

type Queue interface {
	EnqueueAnalysis(ctx Context, payload AnalysisTaskPayload) (string, error)
}

// AIClient (port)

type AIClient interface {
	// ChatJSON sends a prompt expecting structured JSON back; the reply is
	// untrusted text and must be cleaned/decoded by the caller.
	ChatJSON(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
	// Embed returns embedding vectors for texts.
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// TextExtractor (port)
// ExtractPath extracts plain text from a file at path with the provided
// original filename. Implementations may call external services (e.g. Tika).
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// CaptionFetcher (port) retrieves timed captions for a video by its ID.
type CaptionFetcher interface {
	Fetch(ctx Context, videoID string) ([]TranscriptSegment, error)
}

// CodeRunner (port) abstracts the sandboxed execution service.
type CodeRunner interface {
	Execute(ctx Context, language, code, stdin string) (RunResult, error)
	Runtimes(ctx Context) (map[string][]string, error)
}

// SessionStore (port) keeps interim per-session state: registered
// datasets, processed documents/videos, and the exercise in progress.
// Entries expire server-side; nothing here outlives a session.
type SessionStore interface {
	SaveDataset(ctx Context, sessionID string, ds DatasetInfo) error
	ListDatasets(ctx Context, sessionID string) ([]DatasetInfo, error)
	SaveDocument(ctx Context, sessionID string, d DocumentInfo) error
	GetDocument(ctx Context, sessionID, docID string) (DocumentInfo, error)
	SaveVideo(ctx Context, sessionID string, v VideoInfo) error
	GetVideo(ctx Context, sessionID, videoID string) (VideoInfo, error)
	SaveExercise(ctx Context, sessionID string, ex ExerciseState) error
	GetExercise(ctx Context, sessionID string) (ExerciseState, error)
	Clear(ctx Context, sessionID string) error
}

// Context is an alias to context.Context so domain signatures stay short;
// adapters and usecases pass the request context straight through.
type Context = context.Context
