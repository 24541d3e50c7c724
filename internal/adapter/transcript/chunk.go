package transcript

import (
	"strings"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// TimedChunk groups consecutive caption segments into one embeddable piece
// with its covering time range in seconds.
type TimedChunk struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// DefaultChunkDuration is the target length of one transcript chunk.
const DefaultChunkDuration = 60.0

// ChunkSegments folds timed segments into chunks of roughly chunkDuration
// seconds. A new chunk starts once the current one spans chunkDuration from
// its first segment.
func ChunkSegments(segments []domain.TranscriptSegment, chunkDuration float64) []TimedChunk {
	if chunkDuration <= 0 {
		chunkDuration = DefaultChunkDuration
	}
	var chunks []TimedChunk
	var cur TimedChunk
	if len(segments) > 0 {
		cur.Start = segments[0].Start
	}
	for _, seg := range segments {
		if seg.Start-cur.Start >= chunkDuration {
			if cur.Text != "" {
				cur.Text = strings.TrimSpace(cur.Text)
				chunks = append(chunks, cur)
			}
			cur = TimedChunk{
				Text:  strings.TrimSpace(seg.Text) + " ",
				Start: seg.Start,
				End:   seg.Start + seg.Duration,
			}
			continue
		}
		cur.Text += strings.TrimSpace(seg.Text) + " "
		cur.End = seg.Start + seg.Duration
	}
	if cur.Text != "" {
		cur.Text = strings.TrimSpace(cur.Text)
		chunks = append(chunks, cur)
	}
	return chunks
}

// FullText joins all segment texts into one transcript string.
func FullText(segments []domain.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
