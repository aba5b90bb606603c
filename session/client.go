// Package session
package session

import (
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	json "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	"github.com/seqio/framewire/transport"
)

func NewClient(host string, options ...Option) *Client {
	c := &Client{
		Host:    host,
		options: defaultOptions(),
	}
	c.options.Apply(options)
	RegisterMetrics()
	return c
}

type Client struct {
	Host    string
	options *Options
}

func (c *Client) Options() *Options {
	return c.options
}

// Connect dials addr ("tcp://host:port", "ws://..." or "wss://..."),
// negotiates the framing config and returns the established session.
func (c *Client) Connect(addr string) (*Session, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "tcp":
		return c.dialConnect(u)
	case "ws", "wss":
		return c.wsConnect(addr)
	}
	return nil, fmt.Errorf("not support connection: %v", addr)
}

func (c *Client) wsConnect(addr string) (*Session, error) {
	proposed, err := json.Marshal(c.options.Framing)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Add(hostIdKey, c.Host)
	header.Add(framingKey, string(proposed))
	if c.options.CredentialProvider != nil {
		header.Add(authKey, c.options.CredentialProvider())
	}
	wsc, resp, err := websocket.DefaultDialer.Dial(addr, header)
	if err != nil {
		return nil, err
	}

	id := resp.Header.Get(connIdKey)
	peer := resp.Header.Get(hostIdKey)

	cfg := c.options.Framing
	if agreed := resp.Header.Get(framingKey); agreed != "" {
		if err := json.Unmarshal([]byte(agreed), &cfg); err != nil {
			wsc.Close()
			return nil, fmt.Errorf("bad framing config from server: %v", err)
		}
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		wsc.Close()
		return nil, err
	}

	return c.onConnected(transport.NewWebSocket(wsc, strategy), peer, id)
}

func (c *Client) dialConnect(u *url.URL) (*Session, error) {
	tc, err := net.Dial("tcp", u.Host)
	if err != nil {
		return nil, err
	}

	var secret string
	if c.options.CredentialProvider != nil {
		secret = c.options.CredentialProvider()
	}
	peer, id, agreed, err := transport.ClientHandshake(tc, c.Host, secret, c.options.Framing)
	if err != nil {
		log.Printf("client handshake error: %s", err)
		tc.Close()
		return nil, err
	}

	strategy, err := agreed.Strategy()
	if err != nil {
		tc.Close()
		return nil, err
	}
	return c.onConnected(transport.New(tc, strategy), peer, id)
}

func (c *Client) onConnected(t transport.Transport, peer string, id string) (*Session, error) {
	sess := newSession(t, peer, id, true, c.options)
	if c.options.ConnectionEstablished != nil {
		c.options.ConnectionEstablished(sess)
	}
	return sess, nil
}
