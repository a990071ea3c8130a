package suggest

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
)

// DefaultCount is the number of suggestions generated per request unless
// configured otherwise.
const DefaultCount = 3

// maxRequestSize bounds the size of a request body accepted by the Server.
const maxRequestSize = 64 << 10

// Generator produces up to n completions of a line of text, best first. A
// completion is the full line, beginning with the input.
type Generator interface {
	Generate(ctx context.Context, input string, n int) ([]string, error)
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, input string, n int) ([]string, error)

// Generate calls f(ctx, input, n).
func (f GeneratorFunc) Generate(ctx context.Context, input string, n int) ([]string, error) {
	return f(ctx, input, n)
}

// Server serves the suggestion protocol, backed by a Generator.
type Server struct {
	gen    Generator
	count  int
	logger *log.Logger
	mux    *http.ServeMux
}

// ServerOption configures a Server.
type ServerOption func(s *Server)

// WithCount sets the number of suggestions requested from the Generator.
func WithCount(n int) ServerOption {
	return func(s *Server) {
		s.count = n
	}
}

// WithLogger sets the logger used to report failed requests. The default logs
// to stderr.
func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer returns a Server which generates suggestions with gen.
func NewServer(gen Generator, opts ...ServerOption) *Server {
	s := &Server{
		gen:    gen,
		count:  DefaultCount,
		logger: log.New(os.Stderr, "[suggest] ", log.LstdFlags),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("GET /{$}", s.handlePrompt(statusPrompt))
	s.mux.HandleFunc("GET /get-first-prompt", s.handlePrompt(placeholderPrompt))
	s.mux.HandleFunc("POST /suggest", s.handleSuggest)
	return s
}

// ServeHTTP serves the suggestion protocol. Cross-origin requests are allowed
// from any origin so that browser-based editors can use the service.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handlePrompt(prompt string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, PromptResponse{Prompt: prompt})
	}
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := Response{Suggestions: []string{}}
	if req.Input != "" {
		suggestions, err := s.gen.Generate(r.Context(), req.Input, s.count)
		if err != nil {
			s.logger.Printf("generate %q: %v", req.Input, err)
			http.Error(w, "suggestion generation failed", http.StatusInternalServerError)
			return
		}
		if len(suggestions) > 0 {
			resp.Suggestions = suggestions
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}
