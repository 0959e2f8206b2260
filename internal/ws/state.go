package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcprogress/internal/app"
	"github.com/coreman2200/arcprogress/internal/config"
	diag "github.com/coreman2200/arcprogress/internal/diagnostics"
	"github.com/coreman2200/arcprogress/internal/profile"
	"github.com/coreman2200/arcprogress/internal/render"
	"github.com/coreman2200/arcprogress/internal/sequence"
	"github.com/coreman2200/arcprogress/internal/tests"
)

// client serialises writes; gorilla allows one concurrent writer per conn.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// State exposes a Core over HTTP: frames and diagnostics stream over
// websockets, /control accepts JSON commands.
type State struct {
	Core       *app.Core
	ConfigPath string

	// CurrentDriver names the LED output in topology and health replies.
	CurrentDriver string

	mu          sync.RWMutex
	clients     map[*client]bool
	diagClients map[*client]bool
}

// NewState subscribes to core's frames and diagnostics.
func NewState(core *app.Core) *State {
	s := &State{
		Core:        core,
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
	}
	core.OnFrame = s.broadcastFrame
	core.OnDiag = s.pushDiag
	return s
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// subscribe registers conn in set and drains reads until it closes.
func (s *State) subscribe(set map[*client]bool, conn *websocket.Conn) *client {
	c := &client{conn: conn}
	s.mu.Lock()
	set[c] = true
	s.mu.Unlock()
	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, c)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return c
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := s.subscribe(s.clients, conn)
	s.sendTopology(c)
}

// HandleDiagWS replays recent diagnostics, then streams new ones.
func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := s.subscribe(s.diagClients, conn)
	for _, d := range s.Core.Diag.Recent() {
		b, _ := json.Marshal(d)
		if err := c.write(b); err != nil {
			return
		}
	}
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			s.pushDiag(s.Core.Diag.Add(diag.Diagnostic{Severity: diag.Warn, Code: "CONTROL.PARSE", Summary: "Bad control message", Detail: err.Error()}))
			continue
		}
		s.applyControl(msg)
		s.sendTopology(c)
	}
}

// Health is the /health reply.
type Health struct {
	FrameID    uint64              `json:"frame_id"`
	UptimeS    float64             `json:"uptime_s"`
	Count      int                 `json:"count"`
	FPS        int                 `json:"fps"`
	Brightness float64             `json:"brightness"`
	Driver     string              `json:"driver"`
	Settings   Topology            `json:"settings"`
	Profiles   map[string][]string `json:"profiles"`
	Tests      []tests.Kind        `json:"tests"`
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	cfg := s.Core.Config()
	resp := Health{
		FrameID:    s.Core.FrameID(),
		UptimeS:    s.Core.Uptime().Seconds(),
		Count:      s.Core.Layout().Count(),
		FPS:        cfg.FPS,
		Brightness: cfg.Brightness,
		Driver:     s.CurrentDriver,
		Settings:   s.topology(),
		Profiles:   map[string][]string{"progress": {}, "opacity": {}},
		Tests:      tests.Kinds,
	}
	for _, id := range profile.Progressions() {
		resp.Profiles["progress"] = append(resp.Profiles["progress"], id.String())
	}
	for _, id := range profile.Opacities() {
		resp.Profiles["opacity"] = append(resp.Profiles["opacity"], id.String())
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Control is a /control message. Absent fields are left alone.
type Control struct {
	Progress   *string           `json:"progress,omitempty"`
	Opacity    *string           `json:"opacity,omitempty"`
	ArcCount   *int              `json:"arcCount,omitempty"`
	FPS        *int              `json:"fps,omitempty"`
	Brightness *float64          `json:"brightness,omitempty"`
	Program    *sequence.Program `json:"program,omitempty"`
	Seq        string            `json:"seq,omitempty"` // start | stop | pause | resume
	SeekS      *float64          `json:"seekS,omitempty"`
	RunTest    string            `json:"runTest,omitempty"`
}

func (s *State) applyControl(msg Control) {
	fail := func(code string, err error) {
		s.pushDiag(s.Core.Diag.Add(diag.Diagnostic{Severity: diag.Err, Code: code, Summary: "Control rejected", Detail: err.Error()}))
	}
	if msg.Progress != nil || msg.Opacity != nil || msg.ArcCount != nil {
		cur := s.Core.Config()
		progress, opacity, arcs := cur.Progress, cur.Opacity, 0
		if msg.Progress != nil {
			progress = *msg.Progress
		}
		if msg.Opacity != nil {
			opacity = *msg.Opacity
		}
		if msg.ArcCount != nil {
			arcs = *msg.ArcCount
		}
		if err := s.Core.SetProfiles(progress, opacity, arcs); err != nil {
			code := "CONTROL.PROFILES"
			if render.IsConfigError(err) {
				code = "CONTROL.RANGE"
			}
			fail(code, err)
		}
	}
	if msg.FPS != nil {
		if err := s.Core.SetFPS(*msg.FPS); err != nil {
			fail("CONTROL.FPS", err)
		}
	}
	if msg.Brightness != nil {
		s.Core.SetBrightness(*msg.Brightness)
	}
	if msg.Program != nil {
		if err := s.Core.LoadProgram(*msg.Program); err != nil {
			fail("SEQ.LOAD", err)
		}
	}
	if msg.Seq != "" {
		if err := s.Core.SeqCmd(msg.Seq); err != nil {
			fail("SEQ.CMD", err)
		}
	}
	if msg.SeekS != nil {
		s.Core.Seek(*msg.SeekS)
	}
	if msg.RunTest != "" {
		// unknown names are reported by the core
		_ = s.Core.RunTest(msg.RunTest)
	}

	// Persist config after any change
	s.saveConfig()
}

func (s *State) saveConfig() {
	if s.ConfigPath == "" {
		return
	}
	cfg := s.Core.Config()
	if err := config.Save(s.ConfigPath, &cfg); err != nil {
		log.Warn().Err(err).Str("path", s.ConfigPath).Msg("config save failed")
	}
}

// Topology describes what is currently playing and how the rings are laid
// out.
type Topology struct {
	ArcCount      int           `json:"arcCount"`
	PixelsPerRing int           `json:"pixelsPerRing"`
	FlipEveryRing bool          `json:"flipEveryRing"`
	Progress      string        `json:"progress"`
	Opacity       string        `json:"opacity"`
	Driver        string        `json:"driver"`
	Sequence      app.SeqStatus `json:"sequence"`
}

func (s *State) topology() Topology {
	cfg := s.Core.Config()
	return Topology{
		ArcCount:      cfg.ArcCount,
		PixelsPerRing: cfg.Ring.PixelsPerRing,
		FlipEveryRing: cfg.Ring.FlipEveryRing,
		Progress:      cfg.Progress,
		Opacity:       cfg.Opacity,
		Driver:        s.CurrentDriver,
		Sequence:      s.Core.SeqStatus(),
	}
}

func (s *State) sendTopology(c *client) {
	b, _ := json.Marshal(s.topology())
	_ = c.write(b)
}

// FrameMsg is what /ws subscribers receive every frame. RGB is base64 in
// JSON.
type FrameMsg struct {
	T       int64        `json:"t"`
	FrameID uint64       `json:"frame_id"`
	Arcs    render.Frame `json:"arcs"`
	RGB     []byte       `json:"rgb"`
}

func (s *State) broadcastFrame(snap app.Snapshot) {
	b, _ := json.Marshal(FrameMsg{T: time.Now().UnixNano(), FrameID: snap.FrameID, Arcs: snap.Frame, RGB: snap.RGB})
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		if err := c.write(b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

func (s *State) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.diagClients {
		_ = c.write(b)
	}
}
