package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepforge/ai-prep-coach/internal/config"
	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/usecase"
)

type emptyJobs struct{}

func (emptyJobs) Create(domain.Context, domain.Job) (string, error) { return "", domain.ErrInternal }
func (emptyJobs) UpdateStatus(domain.Context, string, domain.JobStatus, *string) error {
	return nil
}
func (emptyJobs) Get(domain.Context, string) (domain.Job, error) {
	return domain.Job{}, fmt.Errorf("%w: job", domain.ErrNotFound)
}
func (emptyJobs) FindByIdempotencyKey(domain.Context, string) (domain.Job, error) {
	return domain.Job{}, domain.ErrNotFound
}

type stubRunner struct {
	result domain.RunResult
}

func (s stubRunner) Execute(domain.Context, string, string, string) (domain.RunResult, error) {
	return s.result, nil
}

func (s stubRunner) Runtimes(domain.Context) (map[string][]string, error) {
	return map[string][]string{"python": {"3.10.0"}}, nil
}

func testServer() *Server {
	return &Server{
		Cfg:       config.Config{MaxUploadMB: 1},
		Interview: usecase.InterviewService{Jobs: emptyJobs{}},
		Coding:    usecase.CodingService{Runner: stubRunner{result: domain.RunResult{Success: true, Output: "hi\n"}}},
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env.Error.Code
}

func TestDatasetUpload_RequiresMultipart(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/datasets", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.DatasetUploadHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, rec.Body.Bytes()))
}

func TestDatasetUpload_RejectsExtension(t *testing.T) {
	srv := testServer()
	body, ct := multipartBody(t, "file", "report.xlsx", []byte("a,b\n1,2\n"))
	req := httptest.NewRequest(http.MethodPost, "/v1/datasets", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.DatasetUploadHandler()(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestDocumentUpload_RejectsExtension(t *testing.T) {
	srv := testServer()
	body, ct := multipartBody(t, "file", "malware.exe", []byte("MZ binary"))
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.DocumentUploadHandler()(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestDocumentUpload_MissingFileField(t *testing.T) {
	srv := testServer()
	body, ct := multipartBody(t, "wrong", "cv.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.DocumentUploadHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterviewQuestions_ValidationError(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/interview/questions", strings.NewReader(`{"interview_type":"technical interview"}`))
	rec := httptest.NewRecorder()
	srv.InterviewQuestionsHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", details["role"])
}

func TestInterviewAnalyze_MisalignedAnswers(t *testing.T) {
	srv := testServer()
	payload := `{
		"role": "Backend Engineer",
		"interview_type": "technical interview",
		"questions": [{"id":1,"question":"Q1","time_limit":180},{"id":2,"question":"Q2","time_limit":180}],
		"answers": [{"question_id":1,"answer_text":"answer one","duration":30}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/interview/analyze", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.InterviewAnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, rec.Body.Bytes()))
}

func TestInterviewResult_NotFound(t *testing.T) {
	srv := testServer()
	r := chi.NewRouter()
	r.Get("/v1/interview/result/{id}", srv.InterviewResultHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/interview/result/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec.Body.Bytes()))
}

func TestCodingRun_Success(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/coding/run", strings.NewReader(`{"language":"python","code":"print('hi')"}`))
	rec := httptest.NewRecorder()
	srv.CodingRunHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res domain.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "hi\n", res.Output)
}

func TestCodingGenerate_ValidatesDifficulty(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/coding/generate", strings.NewReader(`{"topic":"arrays","difficulty":"impossible","language":"python"}`))
	rec := httptest.NewRecorder()
	srv.CodingGenerateHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCodingRuntimes(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/coding/runtimes", nil)
	rec := httptest.NewRecorder()
	srv.CodingRuntimesHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Runtimes map[string][]string `json:"runtimes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"3.10.0"}, body.Runtimes["python"])
}

func TestReadyz(t *testing.T) {
	okCheck := func(context.Context) error { return nil }
	failCheck := func(context.Context) error { return fmt.Errorf("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		srv := testServer()
		srv.DBCheck, srv.RedisCheck, srv.QdrantCheck = okCheck, okCheck, okCheck
		srv.TikaCheck, srv.PistonCheck = okCheck, okCheck
		rec := httptest.NewRecorder()
		srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("one failing", func(t *testing.T) {
		srv := testServer()
		srv.DBCheck, srv.RedisCheck = okCheck, failCheck
		rec := httptest.NewRecorder()
		srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})
}
