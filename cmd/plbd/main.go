// Command plbd is a thin HTTP demo front-end for the page-list query
// core, in the style of the teacher's cmd/server: one JSON endpoint
// that loads a mock wiki fixture and evaluates one query against it.
// It is wired to providertest.Mock only — there is no real MediaWiki
// connection here, since the API-connection daemon is explicitly out
// of scope (spec.md §1).
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/milkydeferwm/pagelistbot/numinf"
	"github.com/milkydeferwm/pagelistbot/parser"
	"github.com/milkydeferwm/pagelistbot/providertest"
	"github.com/milkydeferwm/pagelistbot/solver"
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

// resultItem is the JSON-serialised shape of one TrioResult item.
type resultItem struct {
	Kind    string `json:"kind"` // "ok", "warn", or "err"
	Title   string `json:"title,omitempty"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
}

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	defaultTimeout := flag.Duration("timeout", 10*time.Second, "default query timeout")
	defaultLimitFlag := flag.String("default-limit", "inf", "default result limit (\"inf\" or an integer)")
	flag.Parse()

	defaultLimit, err := numinf.Parse(*defaultLimitFlag)
	if err != nil {
		fmt.Printf("invalid -default-limit: %v\n", err)
		return
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var body struct {
			Fixture json.RawMessage `json:"fixture"`
			Query   string          `json:"query"`
			Limit   string          `json:"limit,omitempty"`
			Timeout float64         `json:"timeoutSeconds,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(body.Fixture) == 0 {
			writeError(w, http.StatusBadRequest, "missing field: fixture")
			return
		}
		if body.Query == "" {
			writeError(w, http.StatusBadRequest, "missing field: query")
			return
		}

		mock, err := providertest.LoadJSON(bytes.NewReader(body.Fixture))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid fixture: %v", err))
			return
		}

		root, err := parser.Parse(body.Query)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		limit := defaultLimit
		if body.Limit != "" {
			limit, err = numinf.Parse(body.Limit)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %v", err))
				return
			}
		}
		timeout := *defaultTimeout
		if body.Timeout > 0 {
			timeout = time.Duration(body.Timeout * float64(time.Second))
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout+time.Second)
		defer cancel()

		opts := solver.Options{
			DefaultLimit:       limit,
			Timeout:            timeout,
			ApproachingWarning: timeout / 5,
		}

		var items []resultItem
		for item := range solver.Solve(ctx, root, opts, mock) {
			switch {
			case item.IsOk():
				t, _ := item.OkValue()
				items = append(items, resultItem{Kind: "ok", Title: t.String()})
			case item.IsWarn():
				wr, _ := item.WarnValue()
				items = append(items, resultItem{Kind: "warn", Warning: wr.String()})
			case item.IsErr():
				e, _ := item.ErrValue()
				items = append(items, resultItem{Kind: "err", Error: e.Error()})
			}
		}

		writeJSON(w, http.StatusOK, struct {
			Items []resultItem `json:"items"`
		}{Items: items})
	})

	fmt.Printf("plbd listening on %s\n", *addr)
	if err := http.ListenAndServe(*addr, corsMiddleware(mux)); err != nil {
		fmt.Printf("server error: %v\n", err)
	}
}
