// Package piston runs untrusted exercise code against a Piston-compatible
// execution API. Submitted code never executes in this process.
package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/prepforge/ai-prep-coach/internal/adapter/observability"
	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// languageMap maps exercise languages to Piston runtime names.
var languageMap = map[string]string{
	"python":     "python",
	"javascript": "javascript",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
	"csharp":     "csharp",
	"go":         "go",
	"rust":       "rust",
	"ruby":       "ruby",
	"php":        "php",
	"swift":      "swift",
	"kotlin":     "kotlin",
	"typescript": "typescript",
}

// versionMap pins runtime versions known to be stable on the public API;
// unlisted languages request any version.
var versionMap = map[string]string{
	"python":     "3.10.0",
	"javascript": "18.15.0",
	"java":       "15.0.2",
	"cpp":        "10.2.0",
	"csharp":     "6.12.0",
	"go":         "1.16.2",
}

var extensionMap = map[string]string{
	"python":     "py",
	"javascript": "js",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
	"csharp":     "cs",
	"go":         "go",
	"rust":       "rs",
	"ruby":       "rb",
	"php":        "php",
	"swift":      "swift",
	"kotlin":     "kt",
	"typescript": "ts",
}

// Client is a minimal Piston HTTP client implementing domain.CodeRunner.
// It performs POST /execute and GET /runtimes.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	compileTimeout time.Duration
	runTimeout     time.Duration
}

// New constructs a Piston client. compileTimeout and runTimeout are
// forwarded to the API in milliseconds; the client-side deadline must
// outlast their sum plus transfer headroom, or a slow-but-legal execution
// would be cut off before the API can answer.
func New(baseURL string, compileTimeout, runTimeout time.Duration) *Client {
	deadline := compileTimeout + runTimeout + 5*time.Second
	if deadline < 15*time.Second {
		deadline = 15 * time.Second
	}
	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: deadline},
		compileTimeout: compileTimeout,
		runTimeout:     runTimeout,
	}
}

// SupportedLanguages returns the languages exercises may target.
func SupportedLanguages() []string {
	out := make([]string, 0, len(languageMap))
	for lang := range languageMap {
		out = append(out, lang)
	}
	return out
}

// IsSupported reports whether a language can be executed.
func IsSupported(language string) bool {
	_, ok := languageMap[language]
	return ok
}

type executePayload struct {
	Language           string        `json:"language"`
	Version            string        `json:"version"`
	Files              []payloadFile `json:"files"`
	Stdin              string        `json:"stdin"`
	Args               []string      `json:"args"`
	CompileTimeout     int64         `json:"compile_timeout"`
	RunTimeout         int64         `json:"run_timeout"`
	CompileMemoryLimit int64         `json:"compile_memory_limit"`
	RunMemoryLimit     int64         `json:"run_memory_limit"`
}

type payloadFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type stageResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   int    `json:"code"`
}

type executeResponse struct {
	Compile *stageResult `json:"compile"`
	Run     stageResult  `json:"run"`
}

// Execute runs code in the sandbox and returns the cleaned result.
// Unsupported languages fail with ErrInvalidArgument before any request.
func (c *Client) Execute(ctx context.Context, language, code, stdin string) (domain.RunResult, error) {
	runtimeName, ok := languageMap[language]
	if !ok {
		return domain.RunResult{}, fmt.Errorf("%w: language %s not supported", domain.ErrInvalidArgument, language)
	}
	version, ok := versionMap[language]
	if !ok {
		version = "*"
	}
	ext, ok := extensionMap[language]
	if !ok {
		ext = "txt"
	}

	cleanCode := strings.ReplaceAll(code, "\r\n", "\n")
	cleanCode = strings.ReplaceAll(cleanCode, "\r", "\n")

	payload := executePayload{
		Language:           runtimeName,
		Version:            version,
		Files:              []payloadFile{{Name: "main." + ext, Content: cleanCode}},
		Stdin:              stdin,
		Args:               []string{},
		CompileTimeout:     c.compileTimeout.Milliseconds(),
		RunTimeout:         c.runTimeout.Milliseconds(),
		CompileMemoryLimit: -1,
		RunMemoryLimit:     -1,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return domain.RunResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(b))
	if err != nil {
		return domain.RunResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.SandboxExecutionsTotal.WithLabelValues(language, "error").Inc()
		return domain.RunResult{}, fmt.Errorf("%w: sandbox request: %v", domain.ErrUpstreamTimeout, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		observability.SandboxExecutionsTotal.WithLabelValues(language, "error").Inc()
		slog.Error("sandbox non-200", slog.Int("status", resp.StatusCode), slog.String("language", language))
		return domain.RunResult{}, fmt.Errorf("sandbox status %d", resp.StatusCode)
	}

	var out executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.SandboxExecutionsTotal.WithLabelValues(language, "error").Inc()
		return domain.RunResult{}, fmt.Errorf("decode sandbox response: %w", err)
	}

	// Compilation failure short-circuits before the run stage.
	if out.Compile != nil && out.Compile.Code != 0 {
		observability.SandboxExecutionsTotal.WithLabelValues(language, "compile_error").Inc()
		errMsg := strings.TrimSpace(out.Compile.Stderr)
		if errMsg == "" {
			errMsg = "Compilation failed"
		}
		return domain.RunResult{
			Success:  false,
			Output:   strings.TrimSpace(out.Compile.Stdout),
			Error:    errMsg,
			ExitCode: out.Compile.Code,
		}, nil
	}

	output := cleanOutput(strings.TrimSpace(out.Run.Stdout), cleanCode)
	errText := strings.TrimSpace(out.Run.Stderr)
	if out.Run.Code == 0 {
		errText = ""
		observability.SandboxExecutionsTotal.WithLabelValues(language, "ok").Inc()
	} else {
		observability.SandboxExecutionsTotal.WithLabelValues(language, "runtime_error").Inc()
	}

	return domain.RunResult{
		Success:  out.Run.Code == 0,
		Output:   output,
		Error:    errText,
		ExitCode: out.Run.Code,
	}, nil
}

// cleanOutput strips source echo some runtimes leak into stdout. When the
// remaining text still mixes code with output, the last line that looks like
// a value (JSON-ish, numeric or boolean) marks the start of the real output.
func cleanOutput(output, code string) string {
	if output == "" {
		return output
	}
	if strings.Contains(output, code) {
		output = strings.TrimSpace(strings.ReplaceAll(output, code, ""))
	}
	if !strings.Contains(output, "\n") {
		return output
	}
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if looksLikeValue(line) {
			return strings.TrimSpace(strings.Join(lines[i:], "\n"))
		}
	}
	return output
}

func looksLikeValue(line string) bool {
	switch line[0] {
	case '[', '{', '"':
		return true
	}
	if line[0] >= '0' && line[0] <= '9' {
		return true
	}
	return line == "true" || line == "false" || line == "null"
}

// Runtimes fetches the available runtimes, mapping language to versions.
// Used by the readiness probe and the languages endpoint.
func (c *Client) Runtimes(ctx context.Context) (map[string][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("runtimes status %d", resp.StatusCode)
	}

	var runtimes []struct {
		Language string `json:"language"`
		Version  string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&runtimes); err != nil {
		return nil, err
	}
	available := make(map[string][]string)
	for _, rt := range runtimes {
		if rt.Language != "" && rt.Version != "" {
			available[rt.Language] = append(available[rt.Language], rt.Version)
		}
	}
	return available, nil
}
