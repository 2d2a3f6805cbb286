package preview

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"marklive/internal/diagram"
	"marklive/internal/render"
	"marklive/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming websocket message format.
type clientMessage struct {
	Type    string `json:"type"`              // "update" or "theme"
	Content string `json:"content,omitempty"` // document text for "update"
	Theme   string `json:"theme,omitempty"`   // "light" or "dark" for "theme"
}

// serverMessage is the outgoing websocket message format.
type serverMessage struct {
	Type    string `json:"type"` // "render", "diagram", "theme" or "restore"
	Seq     uint64 `json:"seq,omitempty"`
	HTML    string `json:"html,omitempty"`
	Index   int    `json:"index"`
	ID      uint64 `json:"id,omitempty"`
	Status  string `json:"status,omitempty"` // "succeeded" or "failed"
	Theme   string `json:"theme,omitempty"`
	Content string `json:"content,omitempty"`
}

// Hub creates a session per websocket connection. The diagram renderer
// (and with it the identifier sequence) is shared across sessions so
// placeholder identifiers stay process-unique.
type Hub struct {
	conv     *render.Converter
	diagrams *diagram.Renderer
	settings *store.Store
	delay    time.Duration
	theme    diagram.Theme // fallback when nothing is persisted
}

// NewHub wires the shared pipeline pieces. defaultTheme is used when no
// theme has been persisted yet.
func NewHub(conv *render.Converter, diagrams *diagram.Renderer, settings *store.Store, delay time.Duration, defaultTheme diagram.Theme) *Hub {
	return &Hub{
		conv:     conv,
		diagrams: diagrams,
		settings: settings,
		delay:    delay,
		theme:    defaultTheme,
	}
}

// StartTheme resolves the theme a new session starts with: the
// persisted choice when present, the configured default otherwise.
func (h *Hub) StartTheme() diagram.Theme {
	if v, ok, err := h.settings.Get(store.KeyTheme); err == nil && ok {
		if t, valid := ParseTheme(v); valid {
			return t
		}
	}
	return h.theme
}

// ParseTheme validates a theme value from the wire or the store.
func ParseTheme(v string) (diagram.Theme, bool) {
	switch diagram.Theme(v) {
	case diagram.ThemeLight:
		return diagram.ThemeLight, true
	case diagram.ThemeDark:
		return diagram.ThemeDark, true
	}
	return "", false
}

// HandleWebSocket upgrades the connection and runs the session loop
// until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("preview: websocket upgrade: %v", err)
		return
	}

	sess := &session{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
	}
	sess.ctrl = NewController(h.conv, h.diagrams, sess, h.StartTheme())
	sess.deb = NewDebouncer(h.delay, sess.renderNow)

	sess.run()
}

// session binds one websocket connection to its own controller and
// debouncer. It implements Sink; websocket writes are serialized under
// writeMu because gorilla connections allow only one concurrent writer.
type session struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	ctrl *Controller
	deb  *Debouncer[string]

	writeMu sync.Mutex

	mu     sync.Mutex
	source string // latest document text, used for theme re-renders
}

func (s *session) run() {
	defer s.conn.Close()
	defer s.deb.Stop()
	defer s.ctrl.Stop()

	s.sendTheme(s.ctrl.Theme())
	s.restore()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("preview: session %s read: %v", s.id, err)
			}
			return
		}

		var req clientMessage
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Printf("preview: session %s: invalid message: %v", s.id, err)
			continue
		}

		switch req.Type {
		case "update":
			s.setSource(req.Content)
			s.deb.Trigger(req.Content)
		case "theme":
			s.switchTheme(req.Theme)
		default:
			log.Printf("preview: session %s: unknown message type %q", s.id, req.Type)
		}
	}
}

// renderNow fires on the debounce timer with the final document text of
// the quiescence window. The document is also autosaved here rather
// than per keystroke.
func (s *session) renderNow(source string) {
	if err := s.hub.settings.Set(store.KeyLastDocument, source); err != nil {
		log.Printf("preview: session %s autosave: %v", s.id, err)
	}
	s.ctrl.Render(source)
}

func (s *session) switchTheme(v string) {
	theme, ok := ParseTheme(v)
	if !ok {
		log.Printf("preview: session %s: unknown theme %q", s.id, v)
		return
	}
	if err := s.hub.settings.Set(store.KeyTheme, string(theme)); err != nil {
		log.Printf("preview: session %s theme save: %v", s.id, err)
	}
	s.sendTheme(theme)
	s.ctrl.SetTheme(theme, s.getSource())
}

// restore pushes the autosaved document to a fresh session. The shell
// ignores it when the URL fragment already carries shared content.
func (s *session) restore() {
	content, ok, err := s.hub.settings.Get(store.KeyLastDocument)
	if err != nil {
		log.Printf("preview: session %s restore: %v", s.id, err)
		return
	}
	if !ok || content == "" {
		return
	}
	s.send(serverMessage{Type: "restore", Content: content})
}

func (s *session) setSource(source string) {
	s.mu.Lock()
	s.source = source
	s.mu.Unlock()
}

func (s *session) getSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// ShowRender implements Sink.
func (s *session) ShowRender(seq uint64, html string) {
	s.send(serverMessage{Type: "render", Seq: seq, HTML: html})
}

// ShowDiagram implements Sink.
func (s *session) ShowDiagram(seq uint64, index int, id uint64, succeeded bool, html string) {
	status := "succeeded"
	if !succeeded {
		status = "failed"
	}
	s.send(serverMessage{Type: "diagram", Seq: seq, Index: index, ID: id, Status: status, HTML: html})
}

func (s *session) sendTheme(theme diagram.Theme) {
	s.send(serverMessage{Type: "theme", Theme: string(theme)})
}

func (s *session) send(msg serverMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Printf("preview: session %s write: %v", s.id, err)
	}
}
