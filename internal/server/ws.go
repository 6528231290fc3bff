package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/stamp/internal/locale"
	"github.com/ziadkadry99/stamp/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// formatRequest is the incoming WebSocket message format.
type formatRequest struct {
	Timestamp string `json:"ts"`
	Locale    string `json:"locale,omitempty"` // empty uses the connection's locale
}

// formatReply is the outgoing WebSocket message format.
type formatReply struct {
	Text   string `json:"text,omitempty"`
	Valid  bool   `json:"valid"`
	Locale string `json:"locale,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleFormatSocket answers each {"ts","locale"} message with its formatted
// text. The connection's locale and zone come from the upgrade request the
// same way as for /api/format.
func (s *Server) handleFormatSocket(w http.ResponseWriter, r *http.Request) {
	base, err := s.formatterFor(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req formatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendReply(conn, formatReply{Error: "invalid message format"})
			continue
		}

		f := base
		if req.Locale != "" {
			_, t := s.registry.Match(req.Locale)
			f = locale.NewFormatter(t, base.Location())
		}

		reply := formatReply{Text: render.InvalidDate, Locale: f.Tag().String()}
		if t, ok := render.ParseEpoch(req.Timestamp); ok {
			reply.Text, reply.Valid = f.Format(t), true
		}
		s.sendReply(conn, reply)
	}
}

func (s *Server) sendReply(conn *websocket.Conn, reply formatReply) {
	if err := conn.WriteJSON(reply); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}
