// Package session drives framed connections. A Session owns one
// transport and the two pumps the framing layer leaves to its caller:
// a read pump that hands complete frames to the application and a write
// pump that serializes outgoing frames. The framing layer itself never
// sees concurrent calls.
package session

import (
	"errors"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/seqio/framewire/codec"
	"github.com/seqio/framewire/framing"
	"github.com/seqio/framewire/transport"
)

var ErrSessionClosed = errors.New("session: closed")

// Handler receives every frame read from a session.
type Handler func(s *Session, f *framing.Frame)

func newSession(t transport.Transport, peer string, id string, isClient bool, opts *Options) *Session {
	s := &Session{
		t:           t,
		peer:        peer,
		id:          id,
		isClient:    isClient,
		handler:     opts.Handler,
		onClosed:    opts.ConnectionClosed,
		sending:     make(chan outFrame),
		closeNotify: make(chan struct{}),
	}

	s.log = log.WithFields(log.Fields{
		"Name":     "Session",
		"ID":       s.id,
		"Peer":     s.peer,
		"IsClient": s.isClient,
	})

	s.run()
	return s
}

type outFrame struct {
	typ     byte
	payload []byte
	done    chan error
}

type Session struct {
	t           transport.Transport
	peer        string
	id          string
	isClient    bool
	handler     Handler
	onClosed    func(*Session)
	sending     chan outFrame
	closeNotify chan struct{}
	closeOnce   sync.Once
	log         *log.Entry
}

func (s *Session) Peer() string {
	return s.peer
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) run() {
	go s.readPump()
	go s.writePump()
}

func (s *Session) readPump() {
	defer s.Close()
	for {
		f, err := s.t.ReadFrame()
		if err != nil {
			select {
			case <-s.closeNotify:
				// closed locally, transport errors are expected
				return
			default:
			}
			if err != io.EOF {
				s.log.Warn("read frame: ", err)
				recordDecodeError()
			}
			return
		}
		recordFrame(directionRead, len(f.Payload))
		if s.handler != nil {
			s.handler(s, f)
		}
	}
}

func (s *Session) writePump() {
	for {
		select {
		case out := <-s.sending:
			err := s.t.WriteFrame(out.typ, out.payload)
			if err == nil {
				recordFrame(directionWrite, len(out.payload))
			}
			out.done <- err
			if err != nil && !isEncodeRejection(err) {
				s.log.Warn("write frame: ", err)
				s.Close()
				return
			}
		case <-s.closeNotify:
			return
		}
	}
}

// isEncodeRejection reports errors that are local to one payload and
// leave the connection healthy.
func isEncodeRejection(err error) bool {
	return errors.Is(err, framing.ErrInvalidPayload) || errors.Is(err, framing.ErrPayloadTooLarge)
}

// Send frames payload on the session with a zero type tag. Encode-time
// rejections come back to the caller and the session stays open;
// transport failures close it.
func (s *Session) Send(payload []byte) error {
	return s.SendType(0, payload)
}

func (s *Session) SendType(typ byte, payload []byte) error {
	out := outFrame{typ: typ, payload: payload, done: make(chan error, 1)}
	select {
	case s.sending <- out:
	case <-s.closeNotify:
		return ErrSessionClosed
	}

	select {
	case err := <-out.done:
		return err
	case <-s.closeNotify:
		return ErrSessionClosed
	}
}

// SendMessage marshals v with the named serializer and sends it tagged
// with that serializer's frame type tag.
func (s *Session) SendMessage(serializationType string, v interface{}) error {
	data, err := codec.Marshal(serializationType, v)
	if err != nil {
		return err
	}
	return s.SendType(codec.Tag(serializationType), data)
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeNotify)
		err = s.t.Close()
		s.log.Info("session closed")
		if s.onClosed != nil {
			s.onClosed(s)
		}
	})
	return err
}
