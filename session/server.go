// Package session
package session

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	json "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	"github.com/seqio/framewire/framing"
	"github.com/seqio/framewire/transport"
)

const (
	connIdKey  = "X-CONNECTION-ID"
	hostIdKey  = "X-HOST-ID"
	authKey    = "X-AUTH-TOKEN"
	framingKey = "X-FRAMING-CONFIG"
)

func NewServer(host string, options ...Option) *Server {
	s := &Server{
		Host:     host,
		ws:       &websocket.Upgrader{},
		options:  defaultOptions(),
		sessions: make(map[string]*Session),
	}
	s.options.Apply(options)
	RegisterMetrics()
	return s
}

type Server struct {
	Host     string
	ws       *websocket.Upgrader
	options  *Options
	mu       sync.Mutex
	sessions map[string]*Session
}

func (s *Server) Options() *Options {
	return s.options
}

// GetSessionByPeer returns the live session for a peer host, if any.
func (s *Server) GetSessionByPeer(peer string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[peer]
}

func (s *Server) addSession(sess *Session) {
	s.mu.Lock()
	old := s.sessions[sess.Peer()]
	s.sessions[sess.Peer()] = sess
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	if s.options.ConnectionEstablished != nil {
		s.options.ConnectionEstablished(sess)
	}
}

func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	if s.sessions[sess.Peer()] == sess {
		delete(s.sessions, sess.Peer())
	}
	s.mu.Unlock()
}

// sessionOptions chains session removal onto the user's closed hook.
func (s *Server) sessionOptions() *Options {
	opts := *s.options
	userClosed := s.options.ConnectionClosed
	opts.ConnectionClosed = func(sess *Session) {
		s.removeSession(sess)
		if userClosed != nil {
			userClosed(sess)
		}
	}
	return &opts
}

func (s *Server) RegisterWS(path string, mux *http.ServeMux) {
	mux.HandleFunc(path, s.wsAccept)
}

func (s *Server) RunWS(addr string) {
	u, err := url.Parse(addr)
	if err != nil {
		log.Fatal(err)
	}

	port := u.Port()
	if len(port) == 0 {
		switch u.Scheme {
		case "ws":
			port = ":80"
		case "wss":
			port = ":443"
		default:
			log.Fatalf("url %s is invalid ", addr)
		}
	} else {
		port = ":" + port
	}

	hs := http.NewServeMux()
	s.RegisterWS(u.Path, hs)
	log.Fatal(http.ListenAndServe(port, hs))
}

func (s *Server) wsAccept(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	peer := r.Header.Get(hostIdKey)

	if s.options.CredentialValidator != nil {
		secret := r.Header.Get(authKey)
		if err := s.options.CredentialValidator(secret); err != nil {
			w.WriteHeader(http.StatusForbidden)
			reason := fmt.Sprintf("{\"refused\": %q}", err.Error())
			w.Write([]byte(reason))
			return
		}
	}

	cfg, err := s.acceptConfig(r.Header.Get(framingKey))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	agreed, _ := json.Marshal(cfg)
	header := http.Header{}
	header.Add(connIdKey, id)
	header.Add(hostIdKey, s.Host)
	header.Add(framingKey, string(agreed))
	wsc, err := s.ws.Upgrade(w, r, header)
	if err != nil {
		log.Println("websocket upgrade error ", err)
		return
	}

	s.addSession(newSession(transport.NewWebSocket(wsc, strategy), peer, id, false, s.sessionOptions()))
}

// acceptConfig parses the client's proposed framing config header and
// runs it past the AcceptConfig hook. A missing header means the
// server's own default config.
func (s *Server) acceptConfig(proposed string) (framing.Config, error) {
	cfg := s.options.Framing
	if proposed != "" {
		if err := json.Unmarshal([]byte(proposed), &cfg); err != nil {
			return framing.Config{}, err
		}
	}
	if s.options.AcceptConfig != nil {
		return s.options.AcceptConfig(cfg)
	}
	return cfg, nil
}

func (s *Server) RunTCP(addr string) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Fatal(s.ServeTCP(l))
}

// ServeTCP accepts framed connections from an existing listener.
func (s *Server) ServeTCP(l net.Listener) error {
	for {
		tc, err := l.Accept()
		if err != nil {
			return err
		}

		id := uuid.NewString()
		peer, cfg, err := transport.ServerHandshake(tc, s.Host, id, s.options.CredentialValidator, s.options.AcceptConfig)
		if err != nil {
			log.Printf("server handshake error: %s", err)
			tc.Close()
			continue
		}
		strategy, err := cfg.Strategy()
		if err != nil {
			log.Printf("agreed framing config unusable: %s", err)
			tc.Close()
			continue
		}

		s.addSession(newSession(transport.New(tc, strategy), peer, id, false, s.sessionOptions()))
	}
}
