// Package suggest implements the suggestion service used by ghostline: an
// HTTP client satisfying ghostline.Suggester, and a reference server which
// generates completions with a language model.
//
// The service speaks JSON over HTTP:
//
//	GET  /                 -> {"prompt": "Server is Up and Running..."}
//	GET  /get-first-prompt -> {"prompt": <placeholder text>}
//	POST /suggest          {"input": <line>} -> {"suggestions": [...]}
//
// A request carries the text of a single line, never the whole document.
// Suggestions are best first, and an empty input yields no suggestions.
package suggest

// Request is the body of a POST /suggest request.
type Request struct {
	Input string `json:"input"`
}

// Response is the body of a successful POST /suggest response.
type Response struct {
	Suggestions []string `json:"suggestions"`
}

// PromptResponse is the body of the status and placeholder responses.
type PromptResponse struct {
	Prompt string `json:"prompt"`
}

const (
	statusPrompt      = "Server is Up and Running..."
	placeholderPrompt = "Type something here..."
)
