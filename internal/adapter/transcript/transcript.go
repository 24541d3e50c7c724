// Package transcript fetches YouTube video captions through the public
// timedtext endpoint and prepares them for embedding.
package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/pkg/textx"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:watch\?v=)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID pulls the 11-character video ID out of the common YouTube
// URL forms (watch, short youtu.be links, embeds).
func ExtractVideoID(videoURL string) (string, error) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(videoURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: could not extract video id from url %q", domain.ErrInvalidArgument, videoURL)
}

// Client fetches captions from the YouTube timedtext API. It implements
// domain.CaptionFetcher.
type Client struct {
	baseURL    string
	languages  []string
	httpClient *http.Client
}

// New constructs a caption client. baseURL is overridable for tests; empty
// means the public endpoint.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.youtube.com/api/timedtext"
	}
	return &Client{
		baseURL:    baseURL,
		languages:  []string{"en", "id"},
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// timedtext XML payload: <transcript><text start=".." dur="..">..</text></transcript>
type timedText struct {
	XMLName xml.Name    `xml:"transcript"`
	Texts   []timedLine `xml:"text"`
}

type timedLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Body  string  `xml:",chardata"`
}

// Fetch returns the timed caption segments for a video, trying the
// configured languages in order. A video without any caption track
// yields domain.ErrNotFound.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]domain.TranscriptSegment, error) {
	var lastErr error
	for _, lang := range c.languages {
		segs, err := c.fetchLang(ctx, videoID, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if len(segs) > 0 {
			return segs, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: no captions for video %s", domain.ErrNotFound, videoID)
}

func (c *Client) fetchLang(ctx context.Context, videoID, lang string) ([]domain.TranscriptSegment, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("timedtext status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// An empty body means the track does not exist for this language.
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, nil
	}

	var tt timedText
	if err := xml.Unmarshal(b, &tt); err != nil {
		return nil, fmt.Errorf("%w: timedtext xml: %v", domain.ErrSchemaInvalid, err)
	}
	segs := make([]domain.TranscriptSegment, 0, len(tt.Texts))
	for _, line := range tt.Texts {
		text := textx.SanitizeText(html.UnescapeString(line.Body))
		if text == "" {
			continue
		}
		segs = append(segs, domain.TranscriptSegment{
			Text:     text,
			Start:    line.Start,
			Duration: line.Dur,
		})
	}
	return segs, nil
}
