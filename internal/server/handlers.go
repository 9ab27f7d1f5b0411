package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/leapstack-labs/coltype/internal/catalog"
	"github.com/leapstack-labs/coltype/internal/state"
	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/leapstack-labs/coltype/pkg/format"
	"github.com/leapstack-labs/coltype/pkg/nested"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type dialectResponse struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Keywords       []string `json:"keywords"`
	StripQuotes    bool     `json:"strip_quotes"`
	PrecisionTypes []string `json:"precision_types"`
}

type parseRequest struct {
	Type     string `json:"type"`
	Database string `json:"database"`
	Strict   *bool  `json:"strict,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

type parseResponse struct {
	Nested    bool             `json:"nested"`
	Truncated string           `json:"truncated,omitempty"`
	Expanded  string           `json:"expanded,omitempty"`
	Tree      *core.NestedType `json:"tree,omitempty"`
}

type columnResponse struct {
	core.Column
	Nested    bool             `json:"nested"`
	Truncated string           `json:"truncated,omitempty"`
	Tree      *core.NestedType `json:"tree,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type columnsResponse struct {
	Table   string           `json:"table"`
	Columns []columnResponse `json:"columns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDialects(w http.ResponseWriter, _ *http.Request) {
	names := dialect.List()
	out := make([]dialectResponse, 0, len(names))
	for _, name := range names {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		out = append(out, dialectResponse{
			Name:           d.Name,
			Description:    d.Description,
			Keywords:       d.Keywords(),
			StripQuotes:    d.StripsQuotes(),
			PrecisionTypes: d.PrecisionTypes(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	d, err := dialect.Lookup(req.Database)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	strict := s.strict
	if req.Strict != nil {
		strict = *req.Strict
	}
	// A request may lower the depth cap but never raise it.
	maxDepth := s.maxDepth
	if req.MaxDepth > 0 {
		maxDepth = min(req.MaxDepth, maxDepth)
	}

	tree, err := nested.NewParser(d,
		nested.WithStrictMode(strict),
		nested.WithMaxDepth(maxDepth),
		nested.WithLogger(s.logger),
	).Parse(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := parseResponse{Nested: tree != nil, Tree: tree}
	if tree != nil {
		resp.Truncated = tree.Truncated()
		resp.Expanded = format.Expanded(tree)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.ListTables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if tables == nil {
		tables = []state.TableSummary{}
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, errors.New("query parameter key is required"))
		return
	}

	table, err := s.store.GetTable(r.Context(), key)
	if errors.Is(err, state.ErrTableNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	summaries := catalog.AnnotateColumns(*table, catalog.Options{
		Strict:   s.strict,
		MaxDepth: s.maxDepth,
		Logger:   s.logger,
	})

	resp := columnsResponse{Table: key, Columns: make([]columnResponse, 0, len(summaries))}
	for _, cs := range summaries {
		col := columnResponse{
			Column:    cs.Column,
			Nested:    cs.Nested,
			Truncated: cs.Truncated,
			Tree:      cs.Tree,
		}
		if cs.Err != nil {
			col.Error = cs.Err.Error()
		}
		resp.Columns = append(resp.Columns, col)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents streams catalog reloads as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.notifier.subscribe()
	defer s.notifier.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case imp := <-ch:
			data, err := json.Marshal(imp)
			if err != nil {
				s.logger.Error("failed to encode event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: catalog\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
