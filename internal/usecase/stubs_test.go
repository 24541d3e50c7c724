package usecase

import (
	"context"
	"fmt"
	"strings"

	qdrantcli "github.com/prepforge/ai-prep-coach/internal/adapter/vector/qdrant"
	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// memStore is an in-memory SessionStore for tests.
type memStore struct {
	datasets  map[string][]domain.DatasetInfo
	documents map[string]map[string]domain.DocumentInfo
	videos    map[string]map[string]domain.VideoInfo
	exercises map[string]domain.ExerciseState
}

func newMemStore() *memStore {
	return &memStore{
		datasets:  map[string][]domain.DatasetInfo{},
		documents: map[string]map[string]domain.DocumentInfo{},
		videos:    map[string]map[string]domain.VideoInfo{},
		exercises: map[string]domain.ExerciseState{},
	}
}

func (m *memStore) SaveDataset(_ domain.Context, sessionID string, ds domain.DatasetInfo) error {
	for i, existing := range m.datasets[sessionID] {
		if existing.Table == ds.Table {
			m.datasets[sessionID][i] = ds
			return nil
		}
	}
	m.datasets[sessionID] = append(m.datasets[sessionID], ds)
	return nil
}

func (m *memStore) ListDatasets(_ domain.Context, sessionID string) ([]domain.DatasetInfo, error) {
	return m.datasets[sessionID], nil
}

func (m *memStore) SaveDocument(_ domain.Context, sessionID string, d domain.DocumentInfo) error {
	if m.documents[sessionID] == nil {
		m.documents[sessionID] = map[string]domain.DocumentInfo{}
	}
	m.documents[sessionID][d.ID] = d
	return nil
}

func (m *memStore) GetDocument(_ domain.Context, sessionID, docID string) (domain.DocumentInfo, error) {
	d, ok := m.documents[sessionID][docID]
	if !ok {
		return domain.DocumentInfo{}, domain.ErrNotFound
	}
	return d, nil
}

func (m *memStore) SaveVideo(_ domain.Context, sessionID string, v domain.VideoInfo) error {
	if m.videos[sessionID] == nil {
		m.videos[sessionID] = map[string]domain.VideoInfo{}
	}
	m.videos[sessionID][v.VideoID] = v
	return nil
}

func (m *memStore) GetVideo(_ domain.Context, sessionID, videoID string) (domain.VideoInfo, error) {
	v, ok := m.videos[sessionID][videoID]
	if !ok {
		return domain.VideoInfo{}, domain.ErrNotFound
	}
	return v, nil
}

func (m *memStore) SaveExercise(_ domain.Context, sessionID string, ex domain.ExerciseState) error {
	m.exercises[sessionID] = ex
	return nil
}

func (m *memStore) GetExercise(_ domain.Context, sessionID string) (domain.ExerciseState, error) {
	ex, ok := m.exercises[sessionID]
	if !ok {
		return domain.ExerciseState{}, domain.ErrNotFound
	}
	return ex, nil
}

func (m *memStore) Clear(_ domain.Context, sessionID string) error {
	delete(m.datasets, sessionID)
	delete(m.documents, sessionID)
	delete(m.videos, sessionID)
	delete(m.exercises, sessionID)
	return nil
}

// scriptedAI returns canned replies in order; Embed returns fixed-size
// vectors. prompts records every prompt the services built.
type scriptedAI struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (s *scriptedAI) ChatJSON(_ domain.Context, _ string, userPrompt string, _ int) (string, error) {
	s.prompts = append(s.prompts, userPrompt)
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.replies) {
		return "", fmt.Errorf("scripted AI exhausted after %d calls", s.calls)
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

func (s *scriptedAI) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// fakeVectors records index operations and serves canned search hits.
type fakeVectors struct {
	collections map[string]int
	upserts     map[string][]map[string]any
	hits        []qdrantcli.ScoredPoint
}

func newFakeVectors() *fakeVectors {
	return &fakeVectors{
		collections: map[string]int{},
		upserts:     map[string][]map[string]any{},
	}
}

func (f *fakeVectors) EnsureCollection(_ context.Context, name string, vectorSize int, _ string) error {
	f.collections[name] = vectorSize
	return nil
}

func (f *fakeVectors) UpsertPoints(_ context.Context, collection string, _ [][]float32, payloads []map[string]any, _ []any) error {
	f.upserts[collection] = append(f.upserts[collection], payloads...)
	return nil
}

func (f *fakeVectors) Search(_ context.Context, _ string, _ []float32, _ int) ([]qdrantcli.ScoredPoint, error) {
	return f.hits, nil
}

// fakeExtractor returns fixed text for any path.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractPath(domain.Context, string, string) (string, error) {
	return f.text, f.err
}

// fakeCaptions returns fixed segments for any video ID.
type fakeCaptions struct {
	segments []domain.TranscriptSegment
	err      error
}

func (f *fakeCaptions) Fetch(domain.Context, string) ([]domain.TranscriptSegment, error) {
	return f.segments, f.err
}

// fakeRunner executes by table lookup on the combined program text.
type fakeRunner struct {
	results  map[string]domain.RunResult
	fallback domain.RunResult
	programs []string
}

func (f *fakeRunner) Execute(_ domain.Context, _ string, code, _ string) (domain.RunResult, error) {
	f.programs = append(f.programs, code)
	for needle, res := range f.results {
		if needle != "" && strings.Contains(code, needle) {
			return res, nil
		}
	}
	return f.fallback, nil
}

func (f *fakeRunner) Runtimes(domain.Context) (map[string][]string, error) {
	return map[string][]string{"python": {"3.10.0"}}, nil
}

// memJobs is an in-memory JobRepository.
type memJobs struct {
	jobs   map[string]domain.Job
	nextID int
}

func newMemJobs() *memJobs { return &memJobs{jobs: map[string]domain.Job{}} }

func (m *memJobs) Create(_ domain.Context, j domain.Job) (string, error) {
	m.nextID++
	id := fmt.Sprintf("job-%d", m.nextID)
	j.ID = id
	m.jobs[id] = j
	return id, nil
}

func (m *memJobs) UpdateStatus(_ domain.Context, id string, status domain.JobStatus, errMsg *string) error {
	j, ok := m.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	if errMsg != nil {
		j.Error = *errMsg
	}
	m.jobs[id] = j
	return nil
}

func (m *memJobs) Get(_ domain.Context, id string) (domain.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	return j, nil
}

func (m *memJobs) FindByIdempotencyKey(_ domain.Context, key string) (domain.Job, error) {
	for _, j := range m.jobs {
		if j.IdemKey != nil && *j.IdemKey == key {
			return j, nil
		}
	}
	return domain.Job{}, fmt.Errorf("%w: idem key", domain.ErrNotFound)
}

// memAssessments is an in-memory AssessmentRepository.
type memAssessments struct {
	byJob map[string]domain.Assessment
}

func newMemAssessments() *memAssessments {
	return &memAssessments{byJob: map[string]domain.Assessment{}}
}

func (m *memAssessments) Upsert(_ domain.Context, jobID string, a domain.Assessment) error {
	m.byJob[jobID] = a
	return nil
}

func (m *memAssessments) GetByJobID(_ domain.Context, jobID string) (domain.Assessment, error) {
	a, ok := m.byJob[jobID]
	if !ok {
		return domain.Assessment{}, domain.ErrNotFound
	}
	return a, nil
}

// fakeQueue records enqueued payloads.
type fakeQueue struct {
	payloads []domain.AnalysisTaskPayload
	err      error
}

func (f *fakeQueue) EnqueueAnalysis(_ domain.Context, p domain.AnalysisTaskPayload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.payloads = append(f.payloads, p)
	return p.JobID, nil
}
