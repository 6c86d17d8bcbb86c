package web

import (
	"decision-lab/contract"
	"decision-lab/domain"
	"decision-lab/errors"
	"decision-lab/sink"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebsocketHandler runs one realtime session per upgraded connection.
// The read pump dispatches commands in the order they arrive; the write pump drains the sink.
type WebsocketHandler struct {
	dispatcher contract.IDispatcher
	log        *slog.Logger
	upgrader   websocket.Upgrader
	sinkBuffer int
}

func NewWebsocketHandler(dispatcher contract.IDispatcher, log *slog.Logger, sinkBuffer int) *WebsocketHandler {
	return &WebsocketHandler{
		dispatcher: dispatcher,
		log:        log,
		sinkBuffer: sinkBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WebsocketHandler) Serve(c *gin.Context) {
	socket, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "ip", c.ClientIP(), "error", err)
		return
	}

	conn := domain.ConnectionID(uuid.NewString())
	connSink := sink.NewConnectionSink(conn, h.sinkBuffer)
	h.dispatcher.Connect(conn, connSink)
	log := h.log.With("connection", conn)
	log.Debug("Connection opened")

	done := make(chan struct{})
	go func() {
		h.writePump(socket, connSink, log)
		close(done)
	}()

	h.readPump(c, socket, conn, log)

	h.dispatcher.Disconnect(conn)
	connSink.Close()
	<-done
	log.Debug("Connection closed", "dropped_events", connSink.Dropped())
}

func (h *WebsocketHandler) readPump(c *gin.Context, socket *websocket.Conn, conn domain.ConnectionID, log *slog.Logger) {
	defer socket.Close()
	socket.SetReadLimit(maxMessageSize)
	_ = socket.SetReadDeadline(time.Now().Add(pongWait))
	socket.SetPongHandler(func(string) error {
		return socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Websocket read error", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		cmd, err := DecodeCommand(message, conn)
		if err != nil {
			log.Debug("Frame ignored", "error", err)
			continue
		}
		if err := h.dispatcher.Dispatch(c.Request.Context(), cmd); err != nil {
			if stderrors.Is(err, errors.ErrHubNotStarted) {
				log.Warn("Hub not running, closing connection")
				return
			}
			log.Warn("Command not dispatched", "room", cmd.RoomID(), "error", err)
		}
	}
}

func (h *WebsocketHandler) writePump(socket *websocket.Conn, connSink *sink.ConnectionSink, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = socket.Close()
	}()

	for {
		select {
		case e, ok := <-connSink.Events():
			_ = socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := EncodeEvent(e)
			if err != nil {
				log.Error("Unable to encode event", "event", e.Name(), "error", err)
				continue
			}
			if err := socket.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug("Websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
