package prompts

import (
	"fmt"
	"strings"
)

// outputInstructions tells the model how test cases must emit results in
// each supported language.
var outputInstructions = map[string]string{
	"python":     "Use print() for all outputs",
	"javascript": "Use console.log() for outputs",
	"java":       "Use System.out.println() for outputs",
	"cpp":        "Use cout << result << endl; for outputs",
	"c":          "Use printf() with appropriate format specifiers",
	"csharp":     "Use Console.WriteLine() for outputs",
	"typescript": "Use console.log() for outputs",
	"go":         "Use fmt.Println() for arrays/slices",
	"rust":       "Use println! macro with debug formatting",
	"php":        "Use echo json_encode($array) for arrays",
	"ruby":       "Use puts array.inspect for arrays",
	"kotlin":     "Use println(array.contentToString()) for arrays",
	"swift":      "Use print(array) for arrays",
}

var exampleCodes = map[string]string{
	"python":     "print(function_name(test_input))",
	"javascript": "console.log(functionName(testInput));",
	"java":       "System.out.println(functionName(testInput));",
	"cpp":        "cout << functionName(testInput) << endl;",
	"c":          `printf("%d", functionName(testInput));`,
	"csharp":     "Console.WriteLine(FunctionName(testInput));",
	"typescript": "console.log(functionName(testInput));",
	"go":         "fmt.Println(functionName(testInput))",
	"rust":       `println!("{:?}", function_name(test_input));`,
	"php":        "echo functionName($testInput);",
	"ruby":       "puts function_name(test_input)",
	"kotlin":     "println(functionName(testInput))",
	"swift":      "print(functionName(testInput))",
}

// OutputInstruction returns the per-language output note with a generic
// fallback for languages outside the map.
func OutputInstruction(language string) string {
	if s, ok := outputInstructions[language]; ok {
		return s
	}
	return "Use appropriate output method for your language"
}

// ExampleCode returns a per-language example test case call.
func ExampleCode(language string) string {
	if s, ok := exampleCodes[language]; ok {
		return s
	}
	return "output(functionName(testInput));"
}

const exerciseGenerationTemplate = `Generate a coding exercise for the following requirements:

TOPIC: %s
DIFFICULTY: %s
PROGRAMMING LANGUAGE: %s%s

CRITICAL INSTRUCTIONS FOR TEST CASES:
- ALL test case code MUST be written in valid %s syntax
- DO NOT use Python syntax if the language is not Python
- Output formatting: %s
- Test cases must be EXECUTABLE code that calls the function and outputs the result
- Ensure proper JSON escaping for special characters in code strings

You MUST respond with ONLY a valid JSON object. Format your response as pure JSON without markdown code blocks.

Required JSON structure:
- title: string (clear problem title)
- description: string (markdown formatted explanation)
- input_format: string (what inputs the function accepts)
- output_format: string (what the function returns)
- constraints: array of strings (3+ constraints)
- examples: array of objects with input, output, explanation fields
- visible_test_cases: array of EXACTLY 3 test case objects
- hidden_test_cases: array of EXACTLY 5 test case objects
- hints: array of strings (2-3 helpful hints)
- starter_code: string (function skeleton in %s)

Each test case object must have:
- code: string (executable %s code with proper escaping)
- expected_output: string (exact output the code produces)

Example for %s:
{
    "title": "Problem Title",
    "description": "Problem description...",
    "visible_test_cases": [
        {
            "code": "%s",
            "expected_output": "Expected output value"
        }
    ]
}

IMPORTANT: Return ONLY valid JSON without markdown code blocks.`

// ExerciseGeneration builds the exercise generation prompt. previousTitles
// are earlier exercises for the same topic and difficulty; when present the
// prompt instructs the model to produce something different.
func ExerciseGeneration(topic, difficulty, language string, previousTitles []string) string {
	var prev string
	if len(previousTitles) > 0 {
		var b strings.Builder
		b.WriteString("\n\nIMPORTANT: You have previously generated these exercises for this topic and difficulty:\n")
		for _, t := range previousTitles {
			b.WriteString("- " + t + "\n")
		}
		b.WriteString(`
You MUST create a COMPLETELY DIFFERENT exercise. Use different:
- Problem statement and scenario
- Function names
- Input/output requirements
- Edge cases and examples
DO NOT repeat any of the above exercises.
`)
		prev = b.String()
	}
	return fmt.Sprintf(exerciseGenerationTemplate,
		topic, difficulty, language, prev,
		strings.ToUpper(language), OutputInstruction(language),
		language, language, language, ExampleCode(language))
}

const validationTemplate = `Validate the following code submission:

PROBLEM: %s
LANGUAGE: %s
USER'S CODE:
%s

TEST RESULTS:
%s

Provide detailed feedback in JSON format:
{
    "validation_status": "pass" or "fail",
    "feedback": "Detailed explanation of what worked/didn't work",
    "suggestions": ["Specific improvement suggestion 1", "Suggestion 2", ...],
    "score": 0-100
}

Return ONLY valid JSON.`

// Validation builds the submission review prompt from executed test results.
func Validation(title, language, userCode, testResults string) string {
	return fmt.Sprintf(validationTemplate, title, language, userCode, testResults)
}

const hintTemplate = `Generate progressive hints for this coding problem:

PROBLEM: %s
DESCRIPTION: %s
LANGUAGE: %s
CURRENT ATTEMPT NUMBER: %d

Provide %d hints that progressively reveal the solution:
- Hint 1: High-level approach
- Hint 2: Key algorithm/data structure
- Hint 3: Implementation details (if applicable)

Return JSON:
{
    "hints": ["Hint 1 text", "Hint 2 text", "Hint 3 text"]
}

Return ONLY valid JSON.`

// Hints builds the progressive hint prompt.
func Hints(title, description, language string, attempt, numHints int) string {
	return fmt.Sprintf(hintTemplate, title, description, language, attempt, numHints)
}

const solutionTemplate = `Generate a detailed solution for this coding problem:

PROBLEM TITLE: %s
DESCRIPTION: %s
LANGUAGE: %s

Provide:
1. Complete working solution code
2. Explanation of approach (3-4 paragraphs)
3. Time/space complexity analysis
4. Alternative approaches (if applicable)

Return JSON:
{
    "solution_code": "Complete working code",
    "explanation": "Detailed explanation...",
    "complexity": "Time: O(...), Space: O(...)",
    "alternatives": ["Alternative approach 1", "Alternative 2"]
}

Return ONLY valid JSON.`

// Solution builds the reference solution prompt.
func Solution(title, description, language string) string {
	return fmt.Sprintf(solutionTemplate, title, description, language)
}
