package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"missile-guidance/internal/logging"
	"missile-guidance/internal/metrics"
	"missile-guidance/internal/sim"
)

type Server struct {
	eng     *sim.Engine
	mux     *http.ServeMux
	log     *zap.Logger
	metrics *metrics.Collector
	limiter *IPRateLimiter
}

type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Collector
	// RPS and Burst bound POST requests per client IP; zero RPS disables it.
	RPS   float64
	Burst int
}

func NewServer(eng *sim.Engine, opts Options) *Server {
	s := &Server{
		eng:     eng,
		mux:     http.NewServeMux(),
		log:     logging.OrNop(opts.Logger),
		metrics: opts.Metrics,
	}
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = NewIPRateLimiter(rate.Limit(opts.RPS), burst)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.handle("/health", s.health)
	s.handle("/state", s.state)

	s.handle("/command/launch", s.limit(s.launchCmd))
	s.handle("/command/sequence", s.limit(s.sequenceCmd))
	s.handle("/command/hold", s.limit(s.simpleCmd(sim.CmdHold)))
	s.handle("/command/resume", s.limit(s.simpleCmd(sim.CmdResume)))
	s.handle("/command/abort", s.limit(s.simpleCmd(sim.CmdAbort)))
	s.handle("/command/stop", s.limit(s.simpleCmd(sim.CmdStop)))

	s.handle("/guidance/closing", s.limit(s.closing))
	s.handle("/guidance/ipn", s.limit(s.ipn))
	s.handle("/guidance/aim", s.limit(s.aim))
	s.handle("/guidance/steer", s.limit(s.steer))

	s.handle("/stream", s.streamSSE)
	s.handle("/ws", s.streamWS)

	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics.Handler())
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st, err := s.eng.GetState(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	writeJSON(w, st)
}

func (s *Server) launchCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	// omitted fields keep the reference scene's values
	scene := sim.DefaultScene()
	if err := json.NewDecoder(r.Body).Decode(&scene); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	if !s.submit(w, sim.LaunchCommand{At: time.Now(), ID: id, Scene: scene}) {
		return
	}
	writeJSON(w, map[string]any{"status": "accepted", "type": "launch", "id": id})
}

func (s *Server) sequenceCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Scenes []json.RawMessage `json:"scenes"`
		Loop   bool              `json:"loop,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(body.Scenes) == 0 {
		http.Error(w, "scenes required", http.StatusBadRequest)
		return
	}
	scenes := make([]sim.Scene, len(body.Scenes))
	for i, raw := range body.Scenes {
		scenes[i] = sim.DefaultScene()
		if err := json.Unmarshal(raw, &scenes[i]); err != nil {
			http.Error(w, fmt.Sprintf("scene %d: invalid json", i), http.StatusBadRequest)
			return
		}
	}

	id := uuid.NewString()
	if !s.submit(w, sim.SequenceCommand{At: time.Now(), ID: id, Scenes: scenes, Loop: body.Loop}) {
		return
	}
	writeJSON(w, map[string]any{"status": "accepted", "type": "sequence", "id": id, "count": len(scenes)})
}

func (s *Server) simpleCmd(typ sim.CommandType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var cmd sim.Command
		now := time.Now()
		switch typ {
		case sim.CmdHold:
			cmd = sim.HoldCommand{At: now}
		case sim.CmdResume:
			cmd = sim.ResumeCommand{At: now}
		case sim.CmdAbort:
			cmd = sim.AbortCommand{At: now}
		default:
			cmd = sim.StopCommand{At: now}
		}
		if !s.submit(w, cmd) {
			return
		}
		writeJSON(w, map[string]any{"status": "accepted", "type": typ})
	}
}

// submit forwards cmd to the engine, answering the request itself on failure.
func (s *Server) submit(w http.ResponseWriter, cmd sim.Command) bool {
	err := s.eng.Submit(cmd)
	switch {
	case err == nil:
		return true
	case errors.Is(err, sim.ErrBusy):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
	return false
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			b, _ := json.Marshal(st)
			fmt.Fprintf(w, "event: state\n")
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
