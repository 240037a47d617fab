package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// WriteTyped sends a strongly-typed payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorMessage over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorMessage{
		Event: EventError,
		Error: errMsg,
	})
}

// WritePing sends a protocol-level ping followed by an application ping for
// browsers, which do not surface control frames to scripts.
func WritePing(conn *websocket.Conn) error {
	if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		return err
	}
	return WriteTyped(conn, PingMessage{Event: EventPing})
}

// DrainReads consumes and discards client frames until the connection fails,
// then closes done. Control frames (pong, close) are only processed while reading.
func DrainReads(conn *websocket.Conn, idle time.Duration, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(idle))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(idle))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(idle))
	}
}
