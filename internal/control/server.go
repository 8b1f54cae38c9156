package control

import (
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"newsticker/domain"
	"newsticker/internal/logger"
)

var ErrAlreadyRunning = errors.New("already running")

// TryListen tries to bind the control address. If it's already in use, we assume an instance is running.
func TryListen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return ln, nil
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><meta http-equiv="refresh" content="3"><title>newsticker</title></head>
<body>
{{range .}}<div id="{{.Name}}" class="newsclass">{{.HTML}}</div>
{{else}}<p>No tickers running.</p>
{{end}}</body></html>
`))

type Server struct {
	ctrl   domain.TickerControl
	log    *logger.Logger
	router *mux.Router
}

func NewServer(ctrl domain.TickerControl, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{ctrl: ctrl, log: log, router: mux.NewRouter()}
	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/tickers", s.handleStatuses).Methods(http.MethodGet)
	s.router.HandleFunc("/tickers/{name}", s.handlePreview).Methods(http.MethodGet)
	s.router.HandleFunc("/tickers/{name}/hover", s.handleHover(true)).Methods(http.MethodPost)
	s.router.HandleFunc("/tickers/{name}/hover", s.handleHover(false)).Methods(http.MethodDelete)
	s.router.HandleFunc("/tickers/{name}/stop", s.handleStop).Methods(http.MethodPost)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	type block struct {
		Name string
		HTML template.HTML
	}
	var blocks []block
	for _, name := range s.ctrl.Names() {
		html, err := s.ctrl.Preview(name)
		if err != nil {
			continue
		}
		// Preview output comes from the region's own html/template.
		blocks = append(blocks, block{Name: name, HTML: template.HTML(html)})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, blocks); err != nil {
		s.log.Warn("render control page", "err", err)
	}
}

func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Statuses())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	html, err := s.ctrl.Preview(name)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleHover(hovering bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := nameParam(r)
		if err := s.ctrl.SetHover(name, hovering); err != nil {
			writeError(w, err)
			return
		}
		s.log.Info("hover changed", "ticker", name, "hovering", hovering)
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "paused": hovering})
	}
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if err := s.ctrl.StopTicker(name); err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("ticker stopped via control", "ticker", name)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// nameParam maps the "all" path segment to every ticker.
func nameParam(r *http.Request) string {
	name := mux.Vars(r)["name"]
	if name == AllTickers {
		return ""
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, domain.ErrTickerNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]interface{}{"ok": false, "error": err.Error()})
}
