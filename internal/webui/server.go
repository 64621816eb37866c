package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/kayz/shopmate/internal/agent"
	"github.com/kayz/shopmate/internal/logger"
	"github.com/kayz/shopmate/internal/persist"
)

// QueryRunner answers one shopping query. *agent.Pipeline satisfies it.
type QueryRunner interface {
	Run(ctx context.Context, query string) *agent.ConversationState
}

// HistoryStore records answered queries. *persist.Store satisfies it; a nil
// store disables history.
type HistoryStore interface {
	SaveExchange(ex *persist.Exchange) error
	RecentExchanges(limit int) ([]*persist.Exchange, error)
}

type Server struct {
	runner    QueryRunner
	history   HistoryStore
	startedAt time.Time
}

func NewServer(runner QueryRunner, history HistoryStore) *Server {
	return &Server{
		runner:    runner,
		history:   history,
		startedAt: time.Now().UTC(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/history", s.handleHistory)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(defaultIndexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"ok":         true,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		payload["mem_used_percent"] = vm.UsedPercent
	}
	if info, err := host.Info(); err == nil {
		payload["hostname"] = info.Hostname
	}
	writeJSON(w, http.StatusOK, payload)
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.runner == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "pipeline is not initialized"})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	st := s.runner.Run(r.Context(), req.Query)
	resp := agent.BuildResponse(st)
	s.record(st, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) record(st *agent.ConversationState, resp agent.Response) {
	if s.history == nil {
		return
	}
	ex := &persist.Exchange{
		RequestID: st.RequestID,
		Query:     resp.Query,
		Answer:    resp.Answer,
		Results:   make([]persist.StoredResult, 0, len(resp.Results)),
	}
	if resp.Error != nil {
		ex.Error = *resp.Error
	}
	for _, res := range resp.Results {
		ex.Results = append(ex.Results, persist.StoredResult{
			Title:  res.Title,
			URL:    res.URL,
			Price:  res.Price,
			Score:  res.Score,
			Source: res.Source,
			Rank:   res.Rank,
		})
	}
	if err := s.history.SaveExchange(ex); err != nil {
		logger.Warn("failed to record exchange %s: %v", st.RequestID, err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]any{"exchanges": []any{}})
		return
	}
	exchanges, err := s.history.RecentExchanges(20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	type historyEntry struct {
		Query     string `json:"query"`
		Answer    string `json:"answer"`
		CreatedAt string `json:"created_at"`
	}
	entries := make([]historyEntry, 0, len(exchanges))
	for _, ex := range exchanges {
		entries = append(entries, historyEntry{
			Query:     ex.Query,
			Answer:    ex.Answer,
			CreatedAt: ex.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"exchanges": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

const defaultIndexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>shopmate</title>
  <style>
    body { font-family: "Segoe UI", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
    .wrap { max-width: 900px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; }
    #log { min-height: 320px; max-height: 60vh; overflow: auto; white-space: pre-wrap; border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; background: #f9fafb; }
    .row { display: flex; gap: 8px; margin-top: 10px; }
    input { flex: 1; padding: 10px; border: 1px solid #cbd5e1; border-radius: 8px; }
    button { padding: 10px 16px; border: 0; border-radius: 8px; background: #0f766e; color: #fff; cursor: pointer; }
    button:hover { background: #0d9488; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>shopmate</h2>
      <div id="log"></div>
      <div class="row">
        <input id="msg" placeholder="What are you shopping for?" />
        <button id="send">Search</button>
      </div>
    </div>
  </div>
  <script>
    const log = document.getElementById('log');
    const msg = document.getElementById('msg');
    const send = document.getElementById('send');
    const append = (role, text) => { log.textContent += role + ': ' + text + '\n\n'; log.scrollTop = log.scrollHeight; };
    const renderResults = (results) => (results || []).map(r => {
      let line = '  ' + (r.rank + 1) + '. ' + r.title;
      if (r.price !== null && r.price !== undefined) line += ' — $' + r.price.toFixed(2);
      line += ' (' + r.source + ') ' + r.url;
      return line;
    }).join('\n');
    async function sendQuery() {
      const query = msg.value.trim();
      if (!query) return;
      append('You', query);
      msg.value = '';
      const resp = await fetch('/api/query', { method:'POST', headers:{'Content-Type':'application/json'}, body: JSON.stringify({ query })});
      const data = await resp.json();
      if (data.error) { append('shopmate', data.error); return; }
      append('shopmate', data.answer + (data.results && data.results.length ? '\n' + renderResults(data.results) : ''));
    }
    send.addEventListener('click', sendQuery);
    msg.addEventListener('keydown', (e) => { if (e.key === 'Enter') sendQuery(); });
  </script>
</body>
</html>`
