package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prepforge/ai-prep-coach/internal/adapter/ai/tokencount"
	"github.com/prepforge/ai-prep-coach/internal/adapter/transcript"
	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/prompts"
)

// YouTubeService indexes video captions into timed chunks and answers
// questions grounded in the transcript.
type YouTubeService struct {
	Store     domain.SessionStore
	AI        domain.AIClient
	Captions  domain.CaptionFetcher
	Vectors   VectorIndex
	Tokens    *tokencount.Counter
	ChatModel string
}

// NewYouTubeService constructs a YouTubeService with its dependencies.
func NewYouTubeService(store domain.SessionStore, ai domain.AIClient, captions domain.CaptionFetcher, v VectorIndex, chatModel string) YouTubeService {
	return YouTubeService{
		Store:     store,
		AI:        ai,
		Captions:  captions,
		Vectors:   v,
		Tokens:    tokencount.NewCounter(),
		ChatModel: chatModel,
	}
}

// Process fetches captions for the video URL, folds them into time-based
// chunks, embeds them, and indexes them in a per-video collection.
func (s YouTubeService) Process(ctx domain.Context, sessionID, videoURL string) (domain.VideoInfo, error) {
	videoID, err := transcript.ExtractVideoID(videoURL)
	if err != nil {
		return domain.VideoInfo{}, err
	}
	segments, err := s.Captions.Fetch(ctx, videoID)
	if err != nil {
		return domain.VideoInfo{}, fmt.Errorf("fetch captions: %w", err)
	}
	chunks := transcript.ChunkSegments(segments, transcript.DefaultChunkDuration)
	if len(chunks) == 0 {
		return domain.VideoInfo{}, fmt.Errorf("%w: transcript is empty", domain.ErrInvalidArgument)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.AI.Embed(ctx, texts)
	if err != nil {
		return domain.VideoInfo{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.VideoInfo{}, fmt.Errorf("%w: embedding count mismatch", domain.ErrInternal)
	}

	collection := "yt_" + videoID
	if err := s.Vectors.EnsureCollection(ctx, collection, len(vectors[0]), "Cosine"); err != nil {
		return domain.VideoInfo{}, fmt.Errorf("ensure collection: %w", err)
	}
	payloads := make([]map[string]any, len(chunks))
	ids := make([]any, len(chunks))
	for i, c := range chunks {
		payloads[i] = map[string]any{"text": c.Text, "start": c.Start, "end": c.End}
		ids[i] = i
	}
	if err := s.Vectors.UpsertPoints(ctx, collection, vectors, payloads, ids); err != nil {
		return domain.VideoInfo{}, fmt.Errorf("index chunks: %w", err)
	}

	info := domain.VideoInfo{
		VideoID:    videoID,
		URL:        videoURL,
		Collection: collection,
		Chunks:     len(chunks),
	}
	if err := s.Store.SaveVideo(ctx, sessionID, info); err != nil {
		return domain.VideoInfo{}, err
	}
	slog.Info("video transcript indexed",
		slog.String("session_id", sessionID),
		slog.String("video_id", videoID),
		slog.Int("chunks", len(chunks)))
	return info, nil
}

// Ask answers a question from the video's most relevant transcript chunks.
// Retrieved chunks carry their time range so the model can cite timestamps.
func (s YouTubeService) Ask(ctx domain.Context, sessionID, videoID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question required", domain.ErrInvalidArgument)
	}
	video, err := s.Store.GetVideo(ctx, sessionID, videoID)
	if err != nil {
		return "", err
	}

	qvecs, err := s.AI.Embed(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}
	hits, err := s.Vectors.Search(ctx, video.Collection, qvecs[0], searchTopK)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}

	var parts []string
	for _, h := range hits {
		t, ok := h.Payload["text"].(string)
		if !ok || t == "" {
			continue
		}
		start, _ := h.Payload["start"].(float64)
		parts = append(parts, fmt.Sprintf("[%ds] %s", int(start), t))
	}
	if len(parts) == 0 {
		return "That topic was not discussed in this video", nil
	}
	transcriptText := s.Tokens.TruncateToBudget(strings.Join(parts, "\n\n"), s.ChatModel, contextTokenBudget)

	answer, err := s.AI.ChatJSON(ctx, "", prompts.YouTubeQA(transcriptText, question), 1000)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
