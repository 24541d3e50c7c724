package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ResponseCleaner handles cleaning and sanitizing model responses that are
// supposed to be JSON but arrive wrapped in markdown or prose.
type ResponseCleaner struct{}

// NewResponseCleaner creates a new response cleaner.
func NewResponseCleaner() *ResponseCleaner {
	return &ResponseCleaner{}
}

var (
	markdownOpenRe  = regexp.MustCompile("^```(?:json)?\\s*\n?")
	markdownCloseRe = regexp.MustCompile("\n?```\\s*$")
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// CleanJSONResponse strips markdown fences and surrounding prose from a
// model reply and returns the embedded JSON object.
func (rc *ResponseCleaner) CleanJSONResponse(response string) string {
	response = rc.removeMarkdownBlocks(response)
	response = rc.extractJSON(response)
	response = rc.validateAndFixJSON(response)
	return response
}

// removeMarkdownBlocks removes markdown code fences from the response.
func (rc *ResponseCleaner) removeMarkdownBlocks(response string) string {
	response = strings.TrimSpace(response)
	response = markdownOpenRe.ReplaceAllString(response, "")
	response = markdownCloseRe.ReplaceAllString(response, "")
	return strings.TrimSpace(response)
}

// extractJSON extracts the first balanced JSON object from mixed content.
// Braces inside string literals are skipped.
func (rc *ResponseCleaner) extractJSON(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response
}

// validateAndFixJSON returns the response unchanged when it parses, otherwise
// applies fixes for the malformations free models commonly produce.
func (rc *ResponseCleaner) validateAndFixJSON(response string) string {
	var tmp any
	if err := json.Unmarshal([]byte(response), &tmp); err == nil {
		return response
	}
	// Trailing commas before a closing brace or bracket.
	fixed := trailingCommaRe.ReplaceAllString(response, "$1")
	if err := json.Unmarshal([]byte(fixed), &tmp); err == nil {
		return fixed
	}
	return response
}

// IsValidJSON checks if a string is valid JSON.
func (rc *ResponseCleaner) IsValidJSON(response string) bool {
	var tmp any
	return json.Unmarshal([]byte(response), &tmp) == nil
}

// CleanAndValidateJSON cleans a response and fails when the result still is
// not parseable JSON.
func (rc *ResponseCleaner) CleanAndValidateJSON(response string) (string, error) {
	cleaned := rc.CleanJSONResponse(response)
	if !rc.IsValidJSON(cleaned) {
		return "", &JSONValidationError{
			Original: response,
			Cleaned:  cleaned,
			Message:  "cleaned response is still not valid JSON",
		}
	}
	return cleaned, nil
}

// JSONValidationError represents a JSON validation error.
type JSONValidationError struct {
	Original string
	Cleaned  string
	Message  string
}

func (e *JSONValidationError) Error() string {
	return e.Message
}
