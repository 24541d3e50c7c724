package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/prepforge/ai-prep-coach/internal/adapter/ai/tokencount"
	qdrantcli "github.com/prepforge/ai-prep-coach/internal/adapter/vector/qdrant"
	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/prompts"
	"github.com/prepforge/ai-prep-coach/pkg/textx"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
	searchTopK   = 5
	// contextTokenBudget caps the retrieved context so the QA prompt fits
	// the free models' windows.
	contextTokenBudget = 3000
)

// VectorIndex is the subset of the Qdrant client the Q&A services need.
type VectorIndex interface {
	EnsureCollection(ctx context.Context, name string, vectorSize int, distance string) error
	UpsertPoints(ctx context.Context, collection string, vectors [][]float32, payloads []map[string]any, ids []any) error
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]qdrantcli.ScoredPoint, error)
}

// DocumentService turns uploaded documents into searchable vector
// collections and answers questions grounded in the retrieved chunks.
type DocumentService struct {
	Store     domain.SessionStore
	AI        domain.AIClient
	Extractor domain.TextExtractor
	Vectors   VectorIndex
	Tokens    *tokencount.Counter
	ChatModel string
}

// NewDocumentService constructs a DocumentService with its dependencies.
func NewDocumentService(store domain.SessionStore, ai domain.AIClient, ex domain.TextExtractor, v VectorIndex, chatModel string) DocumentService {
	return DocumentService{
		Store:     store,
		AI:        ai,
		Extractor: ex,
		Vectors:   v,
		Tokens:    tokencount.NewCounter(),
		ChatModel: chatModel,
	}
}

// Process extracts text from the file at path, chunks it, embeds the
// chunks, and indexes them in a per-document collection.
func (s DocumentService) Process(ctx domain.Context, sessionID, filename, path string) (domain.DocumentInfo, error) {
	text, err := s.Extractor.ExtractPath(ctx, filename, path)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("extract text: %w", err)
	}
	chunks := textx.Chunk(text, chunkSize, chunkOverlap)
	if len(chunks) == 0 {
		return domain.DocumentInfo{}, fmt.Errorf("%w: document contains no extractable text", domain.ErrInvalidArgument)
	}

	vectors, err := s.AI.Embed(ctx, chunks)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.DocumentInfo{}, fmt.Errorf("%w: embedding count mismatch", domain.ErrInternal)
	}

	docID := uuid.New().String()
	collection := "doc_" + docID
	if err := s.Vectors.EnsureCollection(ctx, collection, len(vectors[0]), "Cosine"); err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("ensure collection: %w", err)
	}
	payloads := make([]map[string]any, len(chunks))
	ids := make([]any, len(chunks))
	for i, c := range chunks {
		payloads[i] = map[string]any{"text": c, "chunk_index": i, "filename": filename}
		ids[i] = i
	}
	if err := s.Vectors.UpsertPoints(ctx, collection, vectors, payloads, ids); err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("index chunks: %w", err)
	}

	info := domain.DocumentInfo{
		ID:         docID,
		Filename:   filename,
		Collection: collection,
		Chunks:     len(chunks),
	}
	if err := s.Store.SaveDocument(ctx, sessionID, info); err != nil {
		return domain.DocumentInfo{}, err
	}
	slog.Info("document indexed",
		slog.String("session_id", sessionID),
		slog.String("doc_id", docID),
		slog.Int("chunks", len(chunks)))
	return info, nil
}

// Ask answers a question from the document's most relevant chunks.
func (s DocumentService) Ask(ctx domain.Context, sessionID, docID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question required", domain.ErrInvalidArgument)
	}
	doc, err := s.Store.GetDocument(ctx, sessionID, docID)
	if err != nil {
		return "", err
	}

	qvecs, err := s.AI.Embed(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}
	hits, err := s.Vectors.Search(ctx, doc.Collection, qvecs[0], searchTopK)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}

	var parts []string
	for _, h := range hits {
		if t, ok := h.Payload["text"].(string); ok && t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "I cannot find that information in the document", nil
	}
	contextText := s.Tokens.TruncateToBudget(strings.Join(parts, "\n\n"), s.ChatModel, contextTokenBudget)

	answer, err := s.AI.ChatJSON(ctx, "", prompts.DocumentQA(contextText, question), 1000)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
