// Package transport
package transport

import (
	"errors"
	"io"

	"github.com/gorilla/websocket"

	"github.com/seqio/framewire/framing"
)

// NewWebSocket presents a websocket connection as a byte stream and
// frames it with the given strategy. Websocket message boundaries are
// not trusted: frames may span or share messages, the framing reader
// resolves the real boundaries.
func NewWebSocket(c *websocket.Conn, s framing.Strategy) Transport {
	return New(&wsConn{Conn: c}, s)
}

type wsConn struct {
	*websocket.Conn
	reader io.Reader
}

// Read never returns (0, nil): a zero count means closed to the
// framing driver, so message boundaries inside the websocket stream are
// skipped over instead.
func (ws *wsConn) Read(buf []byte) (int, error) {
	for {
		if ws.reader == nil {
			typ, r, err := ws.NextReader()
			if err != nil {
				return 0, err
			}
			if typ == websocket.CloseMessage {
				return 0, errors.New("closed by peer")
			}
			ws.reader = r
		}

		n, err := ws.reader.Read(buf)
		if err == io.EOF {
			ws.reader = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

func (ws *wsConn) Write(buf []byte) (int, error) {
	err := ws.Conn.WriteMessage(websocket.BinaryMessage, buf)
	return len(buf), err
}

func (ws *wsConn) Close() error {
	return ws.Conn.Close()
}
