package classifier

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gernest/hot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"
)

type empty struct{}

// ClassifyRequest is the body of /api/classify and the websocket messages, one leg per entry
// in the "TYPE RATIO [STRIKE] DATE" form
type ClassifyRequest struct {
	Legs []string `json:"legs"`
}

type ClassifyResponse struct {
	Name    string   `json:"name,omitempty"`
	Order   []int    `json:"order,omitempty"`
	Legs    []string `json:"legs,omitempty"`
	Elapsed string   `json:"elapsed,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func newResponse(r Result, err error) ClassifyResponse {
	if err != nil {
		return ClassifyResponse{Error: err.Error()}
	}
	return ClassifyResponse{Name: r.Name, Order: r.Order, Legs: r.Legs, Elapsed: r.Elapsed.String()}
}

type WebConfig struct {
	TemplateDir string
	Watch       bool
	Gatherer    prometheus.Gatherer
}

type WebServer struct {
	service *Service
	t       *hot.Template
	mux     *http.ServeMux
	log     zerolog.Logger
}

func NewWebServer(service *Service, cfg WebConfig, log zerolog.Logger) (*WebServer, error) {
	tpl, err := hot.New(&hot.Config{
		Watch:          cfg.Watch,
		BaseName:       "hot",
		Dir:            cfg.TemplateDir,
		FilesExtension: []string{".html"},
	})
	if err != nil {
		return nil, err
	}

	ws := &WebServer{service: service, t: tpl, mux: http.NewServeMux(), log: log.With().Str("component", "web").Logger()}
	ws.mux.HandleFunc("/", ws.welcomeHandler)
	ws.mux.HandleFunc("/classify", ws.classifyHandler)
	ws.mux.HandleFunc("/patterns", ws.patternsHandler)
	ws.mux.HandleFunc("/api/classify", ws.apiClassifyHandler)
	ws.mux.HandleFunc("/api/patterns", ws.apiPatternsHandler)
	ws.mux.Handle("/ws", websocket.Handler(ws.classifyServer))
	if cfg.Gatherer != nil {
		ws.mux.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return ws, nil
}

func (ws *WebServer) Handler() http.Handler {
	return ws.mux
}

// Start serves in the background, the returned server can be shut down by the caller
func (ws *WebServer) Start(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: ws.mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.log.Error().Err(err).Str("addr", addr).Msg("web server failed")
		}
	}()
	return srv
}

// classifyServer answers every ClassifyRequest on the connection until it is closed
func (ws *WebServer) classifyServer(conn *websocket.Conn) {
	for {
		request := ClassifyRequest{}

		if websocket.JSON.Receive(conn, &request) != nil {
			break
		}

		r, err := ws.service.ClassifyLines(request.Legs)
		if websocket.JSON.Send(conn, newResponse(r, err)) != nil {
			break
		}
	}
}

func (ws *WebServer) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ws.t.Execute(w, name, data); err != nil {
		ws.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

func (ws *WebServer) welcomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ws.render(w, "welcome.html", empty{})
}

func (ws *WebServer) classifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	text := r.FormValue("legs")
	data := make(map[string]any)
	data["Input"] = text

	result, err := ws.service.ClassifyLines(strings.Split(text, "\n"))
	if err != nil {
		data["Error"] = err.Error()
	} else {
		data["Result"] = result
	}
	ws.render(w, "result.html", data)
}

func (ws *WebServer) patternsHandler(w http.ResponseWriter, r *http.Request) {
	data := make(map[string]any)
	data["Patterns"] = ws.service.Patterns()
	data["Stats"] = ws.service.Stats().Snapshot()

	ws.render(w, "patterns.html", data)
}

func (ws *WebServer) apiClassifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, ClassifyResponse{Error: "POST required"})
		return
	}
	var request ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, ClassifyResponse{Error: "invalid request: " + err.Error()})
		return
	}
	result, err := ws.service.ClassifyLines(request.Legs)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, newResponse(result, err))
		return
	}
	writeJSON(w, http.StatusOK, newResponse(result, nil))
}

func (ws *WebServer) apiPatternsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ws.service.Patterns())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
