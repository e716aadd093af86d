package controller

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"khichik-studio/models"
	"khichik-studio/service"
)

const (
	liveWriteTimeout = 10 * time.Second
	liveMaxMessage   = 64 * 1024
)

// LivePreviewController streams composite frames over a websocket.
// Clients send JSON batches of inputs; the server answers with msgpack LiveFrames,
// at most one per change burst.
type LivePreviewController struct {
	sessions service.SessionManagerInterface
	upgrader websocket.Upgrader
}

// NewLivePreviewController creates a new LivePreviewController
func NewLivePreviewController(sessions service.SessionManagerInterface) *LivePreviewController {
	return &LivePreviewController{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

// Live handles GET /designs/{id}/live
func (c *LivePreviewController) Live(w http.ResponseWriter, r *http.Request) {
	session, err := c.sessions.Get(sessionIDFromPath(r.URL.Path))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Live preview upgrade failed: %v", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(liveMaxMessage)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	changes, unsubscribe := session.Subscribe()
	defer unsubscribe()

	log.Printf("🔄 Live preview connected for session %s", session.ID())

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		// first frame right away, then one per coalesced change
		if !c.sendFrame(ctx, ws, session) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, open := <-changes:
				if !open {
					ws.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"),
						time.Now().Add(liveWriteTimeout))
					return
				}
				if !c.sendFrame(ctx, ws, session) {
					return
				}
			}
		}
	}()

	for {
		var batch []models.LiveInput
		if err := ws.ReadJSON(&batch); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  Live preview read error for session %s: %v", session.ID(), err)
			}
			break
		}
		session.ApplyInputs(batch)
	}

	cancel()
	<-writerDone
	log.Printf("🔄 Live preview disconnected for session %s", session.ID())
}

// sendFrame renders and writes one frame; false means the connection is done
func (c *LivePreviewController) sendFrame(ctx context.Context, ws *websocket.Conn, session *service.DesignSession) bool {
	frame, err := session.Frame(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("❌ Live preview render failed for session %s: %v", session.ID(), err)
		}
		return false
	}

	data, err := msgpack.Marshal(frame)
	if err != nil {
		log.Printf("❌ Live preview encode failed: %v", err)
		return false
	}

	ws.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return false
	}
	return true
}
