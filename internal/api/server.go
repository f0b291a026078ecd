// Package api is the HTTP surface of the clock: state, configuration,
// framebuffer mirror, diagnostics and self-tests.
package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-retroclock/internal/app"
	"github.com/coreman2200/funtimes-retroclock/internal/config"
	diag "github.com/coreman2200/funtimes-retroclock/internal/diagnostics"
	"github.com/coreman2200/funtimes-retroclock/internal/ledcolor"
	"github.com/coreman2200/funtimes-retroclock/internal/surface"
)

//go:embed index.html
var indexHTML []byte

const (
	writeWait   = 200 * time.Millisecond
	maxBodySize = 16 << 10
)

// Server serves one Core. Config changes are merged into the server's copy,
// persisted to ConfigPath when set, then handed to the core.
type Server struct {
	core       *app.Core
	ConfigPath string

	mu  sync.Mutex
	cfg *config.Config

	upgrader websocket.Upgrader
}

func New(core *app.Core, configPath string) *Server {
	return &Server{
		core:       core,
		ConfigPath: configPath,
		cfg:        core.DisplayState().Config,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Handler returns the routed, CORS-enabled handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/mirror", s.handleMirror)
	mux.HandleFunc("/api/screen.png", s.handleScreen)
	mux.HandleFunc("/api/test", s.handleTest)
	mux.HandleFunc("/ws/mirror", s.handleMirrorWS)
	mux.HandleFunc("/ws/diag", s.handleDiagWS)
	mux.HandleFunc("/health", s.handleHealth)
	return withCORS(mux)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write json")
	}
}

func plain(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, msg)
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || method == http.MethodGet && r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", method)
	plain(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		plain(w, http.StatusNotFound, "Not found")
		return
	}
	if !allow(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

type stateResponse struct {
	Time        string  `json:"time"`
	Date        string  `json:"date"`
	Network     string  `json:"network"`
	IP          string  `json:"ip"`
	TZ          string  `json:"tz"`
	NTP         string  `json:"ntp"`
	Use24h      bool    `json:"use24h"`
	Seconds     bool    `json:"seconds"`
	LEDDiameter int     `json:"ledDiameter"`
	LEDGap      int     `json:"ledGap"`
	LEDColor    uint32  `json:"ledColor"`
	LEDColorHex string  `json:"ledColorHex"`
	Brightness  int     `json:"brightness"`
	Backlight   uint8   `json:"backlight"`
	Morph       string  `json:"morph"`
	Font        string  `json:"font"`
	Pitch       int     `json:"pitch"`
	Dot         int     `json:"dot"`
	Gap         int     `json:"gap"`
	Mode        string  `json:"mode"`
	FrameID     uint64  `json:"frameId"`
	FPS         float64 `json:"fps"`
	TimeOK      bool    `json:"timeOk"`
	Test        string  `json:"test,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	st := s.core.DisplayState()
	network := "DISCONNECTED"
	if st.Net.Up {
		network = st.Net.Name
	}
	writeJSON(w, http.StatusOK, stateResponse{
		Time:        st.Time,
		Date:        st.Date,
		Network:     network,
		IP:          st.Net.IP,
		TZ:          st.Config.TZ,
		NTP:         st.Config.NTP,
		Use24h:      st.Config.Use24h,
		Seconds:     st.Config.Seconds,
		LEDDiameter: st.Config.LEDDiameter,
		LEDGap:      st.Config.LEDGap,
		LEDColor:    st.Config.LEDColor,
		LEDColorHex: ledcolor.NewColor(st.Config.LEDColor).Hex(),
		Brightness:  st.Config.Brightness,
		Backlight:   st.Brightness,
		Morph:       st.Morph,
		Font:        st.Config.Font,
		Pitch:       st.Geometry.Pitch,
		Dot:         st.Geometry.Dot,
		Gap:         st.Geometry.Gap,
		Mode:        st.Mode,
		FrameID:     st.FrameID,
		FPS:         st.FPS,
		TimeOK:      st.TimeOK,
		Test:        st.Test,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.mu.Lock()
		cfg := s.cfg.Clone()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, cfg)
		return
	}
	if !allow(w, r, http.MethodPost) {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		plain(w, http.StatusBadRequest, "missing body")
		return
	}
	var patch map[string]any
	if err := json.Unmarshal(body, &patch); err != nil {
		plain(w, http.StatusBadRequest, "bad json")
		return
	}

	s.mu.Lock()
	ignored := s.cfg.Apply(patch)
	cfg := s.cfg.Clone()
	s.mu.Unlock()

	if len(ignored) > 0 {
		s.core.Diag().Push(diag.Diagnostic{
			Severity: diag.Info, Code: diag.ConfigIgnored, Summary: "Config fields ignored",
			Evidence: map[string]any{"keys": ignored},
		})
	}
	if s.ConfigPath != "" {
		if err := config.Save(s.ConfigPath, cfg); err != nil {
			log.Warn().Err(err).Str("path", s.ConfigPath).Msg("config save failed")
		}
	}
	s.core.SetConfig(cfg)
	log.Info().Strs("ignored", ignored).Msg("config updated")

	if ignored == nil {
		ignored = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "ignored": ignored})
}

func (s *Server) handleMirror(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	b := s.core.Snapshot()
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", fmt.Sprint(len(b)))
	_, _ = w.Write(b)
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	mem, ok := s.core.Surface().(*surface.Memory)
	if !ok {
		plain(w, http.StatusNotFound, "no screen capture on "+s.core.Surface().Name())
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "image/png")
	if err := mem.WritePNG(w); err != nil {
		log.Debug().Err(err).Msg("screen png")
	}
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		plain(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.core.RunTest(req.Name); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "test": req.Name})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.core.DisplayState()
	_, terr := s.core.ReadTime(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"frame_id": st.FrameID,
		"uptime_s": st.Uptime.Seconds(),
		"fps":      st.FPS,
		"mode":     st.Mode,
		"surface":  s.core.Surface().Name(),
		"time_ok":  st.TimeOK,
		"source":   terr == nil,
	})
}
