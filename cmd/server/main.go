package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	decisiongraph "github.com/ritamzico/decisiongraph"
	"github.com/ritamzico/decisiongraph/internal/dgraph"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionStore holds every live interpreter run, keyed by a
// process-local, monotonically-assigned id. This is in-process HTTP
// session affinity for the lifetime of the server, not the durable
// cross-process persistence spec.md's Non-goals exclude.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*decisiongraph.Interpreter
	nextID   int
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*decisiongraph.Interpreter)}
}

func (s *sessionStore) create(it *decisiongraph.Interpreter) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.sessions[id] = it
	return id
}

func (s *sessionStore) get(id string) (*decisiongraph.Interpreter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.sessions[id]
	return it, ok
}

// promptPayload describes what the session is currently waiting on, or
// nil if it has terminated.
type promptPayload struct {
	Kind string   `json:"kind"` // "ask" | "consider"
	Text string   `json:"text,omitempty"`
	Slot []string `json:"slot,omitempty"`
}

func currentPrompt(it *decisiongraph.Interpreter) (*promptPayload, error) {
	node, err := it.CurrentNode()
	if err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case *dgraph.AskNode:
		return &promptPayload{Kind: "ask", Text: n.Text}, nil
	case *dgraph.ConsiderNode:
		return &promptPayload{Kind: "consider", Slot: n.Slot}, nil
	default:
		return nil, fmt.Errorf("interpreter paused at non-interactive node %v", n.ID())
	}
}

// sessionResponse is either an awaiting-input prompt or the final
// trace + accumulated value, depending on whether the run has
// terminated.
func sessionResponse(id string, it *decisiongraph.Interpreter) (map[string]any, error) {
	if !it.Terminated() {
		prompt, err := currentPrompt(it)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sessionId": id, "status": "awaiting_input", "prompt": prompt}, nil
	}

	traceJSON, err := decisiongraph.MarshalTrace(it)
	if err != nil {
		return nil, err
	}
	accJSON, err := decisiongraph.MarshalAccumulator(it)
	if err != nil {
		return nil, err
	}

	status := "done"
	if it.Rejected() {
		status = "rejected"
	}
	return map[string]any{
		"sessionId":   id,
		"status":      status,
		"trace":       json.RawMessage(traceJSON),
		"accumulated": json.RawMessage(accJSON),
	}, nil
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	flag.Parse()

	store := newSessionStore()
	mux := http.NewServeMux()

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var body struct {
			TagSpace json.RawMessage `json:"tagSpace"`
			Program  json.RawMessage `json:"program"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(body.TagSpace) == 0 || len(body.Program) == 0 {
			writeError(w, http.StatusBadRequest, "missing field: tagSpace or program")
			return
		}

		q, messages, err := decisiongraph.Load(body.TagSpace, body.Program, "")
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		it, err := q.NewRun()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		id := store.create(it)
		resp, err := sessionResponse(id, it)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(messages) > 0 {
			texts := make([]string, len(messages))
			for i, m := range messages {
				texts[i] = fmt.Sprintf("%s: %s", m.Severity, m.Text)
			}
			resp["diagnostics"] = texts
		}
		writeJSON(w, http.StatusCreated, resp)
	})

	mux.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
		id, action, found := strings.Cut(rest, "/")
		if !found || action != "answer" {
			writeError(w, http.StatusNotFound, "unknown route")
			return
		}

		it, ok := store.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no session %q", id))
			return
		}

		var body struct {
			Answer string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := it.Answer(body.Answer); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		resp, err := sessionResponse(id, it)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	addr := fmt.Sprintf(":%d", *port)
	fmt.Printf("decisiongraph server listening on %s\n", addr)
	if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "server error: %v\n", err)
	}
}
