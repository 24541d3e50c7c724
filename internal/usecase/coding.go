package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	aicli "github.com/prepforge/ai-prep-coach/internal/adapter/ai"
	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/prompts"
)

// lineCommentSyntax picks the comment marker used when stitching user code
// and a test case into one program.
var lineCommentSyntax = map[string]string{
	"python": "#",
	"ruby":   "#",
}

// CodingService generates exercises, runs user code in the sandbox, and
// produces validation feedback, hints, and reference solutions.
type CodingService struct {
	Store  domain.SessionStore
	AI     domain.AIClient
	Runner domain.CodeRunner
}

// NewCodingService constructs a CodingService with its dependencies.
func NewCodingService(store domain.SessionStore, ai domain.AIClient, runner domain.CodeRunner) CodingService {
	return CodingService{Store: store, AI: ai, Runner: runner}
}

// TestRunSummary is the outcome of executing a submission against the
// exercise's test cases. Hidden test outputs are never included.
type TestRunSummary struct {
	Passed    int             `json:"passed"`
	Total     int             `json:"total"`
	AllPassed bool            `json:"all_passed"`
	Results   []TestRunResult `json:"results"`
}

// TestRunResult is one test case outcome. For hidden cases the code,
// expected, and actual fields are masked.
type TestRunResult struct {
	TestNum  int    `json:"test_num"`
	Visible  bool   `json:"visible"`
	Passed   bool   `json:"passed"`
	Code     string `json:"code"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Error    string `json:"error,omitempty"`
}

// Generate asks the model for a new exercise. The title of the session's
// previous exercise is passed along so regeneration produces something
// different.
func (s CodingService) Generate(ctx domain.Context, sessionID, topic, difficulty, language string) (domain.Exercise, error) {
	if topic == "" || difficulty == "" || language == "" {
		return domain.Exercise{}, fmt.Errorf("%w: topic, difficulty and language required", domain.ErrInvalidArgument)
	}

	var previousTitles []string
	if prev, err := s.Store.GetExercise(ctx, sessionID); err == nil && prev.Exercise.Title != "" {
		previousTitles = append(previousTitles, prev.Exercise.Title)
	}

	prompt := prompts.ExerciseGeneration(topic, difficulty, language, previousTitles)
	reply, err := s.AI.ChatJSON(ctx, "", prompt, 4000)
	if err != nil {
		return domain.Exercise{}, err
	}
	cleaner := aicli.NewResponseCleaner()
	cleaned, err := cleaner.CleanAndValidateJSON(reply)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	exercise, err := aicli.DecodeExercise(cleaned)
	if err != nil {
		return domain.Exercise{}, err
	}

	state := domain.ExerciseState{Exercise: exercise, Language: language, Attempts: 0}
	if err := s.Store.SaveExercise(ctx, sessionID, state); err != nil {
		return domain.Exercise{}, err
	}
	slog.Info("exercise generated",
		slog.String("session_id", sessionID),
		slog.String("title", exercise.Title),
		slog.String("language", language))
	return exercise, nil
}

// Run executes free-form code in the sandbox without touching test cases.
func (s CodingService) Run(ctx domain.Context, language, code, stdin string) (domain.RunResult, error) {
	if strings.TrimSpace(code) == "" {
		return domain.RunResult{}, fmt.Errorf("%w: code required", domain.ErrInvalidArgument)
	}
	return s.Runner.Execute(ctx, language, code, stdin)
}

// RunTests executes the submission against every visible and hidden test
// case of the session's exercise. A test passes when the sandbox run
// succeeds and its trimmed output equals the expected output.
func (s CodingService) RunTests(ctx domain.Context, sessionID, userCode string) (TestRunSummary, error) {
	if strings.TrimSpace(userCode) == "" {
		return TestRunSummary{}, fmt.Errorf("%w: code required", domain.ErrInvalidArgument)
	}
	state, err := s.Store.GetExercise(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TestRunSummary{}, fmt.Errorf("%w: no active exercise", domain.ErrNotFound)
		}
		return TestRunSummary{}, err
	}

	visible := state.Exercise.VisibleTestCases
	all := append(append([]domain.TestCase{}, visible...), state.Exercise.HiddenTestCases...)
	if len(all) == 0 {
		return TestRunSummary{}, fmt.Errorf("%w: exercise has no test cases", domain.ErrInvalidArgument)
	}

	summary := TestRunSummary{Total: len(all)}
	for i, tc := range all {
		isVisible := i < len(visible)
		testCode := stripCodeFences(tc.Code)
		expected := strings.TrimSpace(tc.ExpectedOutput)

		program := combineCode(userCode, testCode, state.Language)
		run, err := s.Runner.Execute(ctx, state.Language, program, "")
		if err != nil {
			return TestRunSummary{}, fmt.Errorf("execute test %d: %w", i+1, err)
		}

		passed := run.Success && strings.TrimSpace(run.Output) == expected
		if passed {
			summary.Passed++
		}
		result := TestRunResult{
			TestNum:  i + 1,
			Visible:  isVisible,
			Passed:   passed,
			Code:     testCode,
			Expected: expected,
			Actual:   strings.TrimSpace(run.Output),
		}
		if !run.Success {
			result.Error = run.Error
		}
		if !isVisible {
			result.Code, result.Expected, result.Actual = "(hidden)", "(hidden)", "(hidden)"
		}
		summary.Results = append(summary.Results, result)
	}
	summary.AllPassed = summary.Passed == summary.Total
	return summary, nil
}

// Validate runs the tests, asks the model to review the submission, and
// returns feedback with the measured pass counts stamped over whatever the
// model claimed. Each validation counts as one attempt.
func (s CodingService) Validate(ctx domain.Context, sessionID, userCode string) (domain.ValidationFeedback, TestRunSummary, error) {
	summary, err := s.RunTests(ctx, sessionID, userCode)
	if err != nil {
		return domain.ValidationFeedback{}, TestRunSummary{}, err
	}
	state, err := s.Store.GetExercise(ctx, sessionID)
	if err != nil {
		return domain.ValidationFeedback{}, TestRunSummary{}, err
	}

	prompt := prompts.Validation(state.Exercise.Title, state.Language, userCode, formatTestResults(summary))
	reply, err := s.AI.ChatJSON(ctx, "", prompt, 1500)
	if err != nil {
		return domain.ValidationFeedback{}, TestRunSummary{}, err
	}
	cleaner := aicli.NewResponseCleaner()
	cleaned, err := cleaner.CleanAndValidateJSON(reply)
	if err != nil {
		return domain.ValidationFeedback{}, TestRunSummary{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	feedback, err := aicli.DecodeValidation(cleaned)
	if err != nil {
		return domain.ValidationFeedback{}, TestRunSummary{}, err
	}

	// Measured results win over model claims.
	feedback.TestsPassed = summary.Passed
	feedback.TestsTotal = summary.Total
	if !summary.AllPassed {
		feedback.ValidationStatus = "fail"
	}

	state.Attempts++
	if err := s.Store.SaveExercise(ctx, sessionID, state); err != nil {
		return domain.ValidationFeedback{}, TestRunSummary{}, err
	}
	return feedback, summary, nil
}

// Hint returns progressive hints for the session's exercise, keyed to how
// many attempts the user has made.
func (s CodingService) Hint(ctx domain.Context, sessionID string) ([]string, error) {
	state, err := s.Store.GetExercise(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	prompt := prompts.Hints(state.Exercise.Title, state.Exercise.Description, state.Language, state.Attempts+1, 3)
	reply, err := s.AI.ChatJSON(ctx, "", prompt, 1000)
	if err != nil {
		return nil, err
	}
	cleaner := aicli.NewResponseCleaner()
	cleaned, err := cleaner.CleanAndValidateJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return aicli.DecodeHints(cleaned)
}

// Solution returns a reference solution for the session's exercise.
func (s CodingService) Solution(ctx domain.Context, sessionID string) (domain.Solution, error) {
	state, err := s.Store.GetExercise(ctx, sessionID)
	if err != nil {
		return domain.Solution{}, err
	}
	prompt := prompts.Solution(state.Exercise.Title, state.Exercise.Description, state.Language)
	reply, err := s.AI.ChatJSON(ctx, "", prompt, 2500)
	if err != nil {
		return domain.Solution{}, err
	}
	cleaner := aicli.NewResponseCleaner()
	cleaned, err := cleaner.CleanAndValidateJSON(reply)
	if err != nil {
		return domain.Solution{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return aicli.DecodeSolution(cleaned)
}

// Runtimes lists the sandbox's available language versions.
func (s CodingService) Runtimes(ctx domain.Context) (map[string][]string, error) {
	return s.Runner.Runtimes(ctx)
}

// combineCode stitches user code and test code into one program. Java and
// C# need their import/using lines hoisted to the top; everything else is
// simple concatenation.
func combineCode(userCode, testCode, language string) string {
	switch language {
	case "java":
		return hoistHeader(userCode, testCode, "import ")
	case "csharp":
		return hoistHeader(userCode, testCode, "using ")
	default:
		comment := lineCommentSyntax[language]
		if comment == "" {
			comment = "//"
		}
		return userCode + "\n\n" + comment + " Test execution\n" + testCode
	}
}

// hoistHeader merges the header lines (imports/usings) from both snippets,
// deduplicated in first-seen order, above the combined bodies.
func hoistHeader(userCode, testCode, prefix string) string {
	var headers []string
	seen := map[string]struct{}{}
	var userRest, testRest []string

	for _, line := range strings.Split(userCode, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			if _, ok := seen[line]; !ok {
				seen[line] = struct{}{}
				headers = append(headers, line)
			}
			continue
		}
		userRest = append(userRest, line)
	}
	for _, line := range strings.Split(testCode, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			if _, ok := seen[line]; !ok {
				seen[line] = struct{}{}
				headers = append(headers, line)
			}
			continue
		}
		testRest = append(testRest, line)
	}
	return strings.Join(headers, "\n") + "\n\n" + strings.Join(userRest, "\n") +
		"\n\n// Test execution\n" + strings.Join(testRest, "\n")
}

// stripCodeFences removes a surrounding markdown code block if the model
// wrapped the test case in one.
func stripCodeFences(code string) string {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, "```") {
		return code
	}
	lines := strings.Split(code, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// formatTestResults renders a test summary as plain text for the
// validation prompt.
func formatTestResults(summary TestRunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d tests passed\n", summary.Passed, summary.Total)
	for _, r := range summary.Results {
		status := "FAIL"
		if r.Passed {
			status = "PASS"
		}
		fmt.Fprintf(&b, "Test %d [%s]", r.TestNum, status)
		if r.Visible && !r.Passed {
			fmt.Fprintf(&b, ": expected %q, got %q", r.Expected, r.Actual)
			if r.Error != "" {
				fmt.Fprintf(&b, " (error: %s)", r.Error)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
