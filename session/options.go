// Package session
package session

import (
	"github.com/seqio/framewire/framing"
)

type Option = func(*Options)

type CredentialValidator = func(string) error

type CredentialProvider = func() string

type Options struct {
	Framing             framing.Config
	Handler             Handler
	CredentialProvider  CredentialProvider
	CredentialValidator CredentialValidator

	// AcceptConfig lets a server override or refuse a client's proposed
	// framing config. Nil accepts the proposal as-is.
	AcceptConfig func(framing.Config) (framing.Config, error)

	ConnectionEstablished func(*Session)
	ConnectionClosed      func(*Session)
}

// WithFramingConfig sets the framing config a client proposes, or the
// default a websocket server assumes when the client sends none.
func WithFramingConfig(c framing.Config) Option {
	return func(op *Options) {
		op.Framing = c
	}
}

// WithHandler sets the callback invoked for every received frame.
func WithHandler(h Handler) Option {
	return func(op *Options) {
		op.Handler = h
	}
}

// WithCredentialProvider set credential provider for client when connecting to server
func WithCredentialProvider(f CredentialProvider) Option {
	return func(op *Options) {
		op.CredentialProvider = f
	}
}

// WithCredentialValidator set credential validator for server when accepting from client
func WithCredentialValidator(f CredentialValidator) Option {
	return func(op *Options) {
		op.CredentialValidator = f
	}
}

func WithAcceptConfig(f func(framing.Config) (framing.Config, error)) Option {
	return func(op *Options) {
		op.AcceptConfig = f
	}
}

func WithConnectionEstablished(f func(*Session)) Option {
	return func(op *Options) {
		op.ConnectionEstablished = f
	}
}

func WithConnectionClosed(f func(*Session)) Option {
	return func(op *Options) {
		op.ConnectionClosed = f
	}
}

func (op *Options) Apply(options []Option) {
	for _, f := range options {
		f(op)
	}
}

func defaultOptions() *Options {
	return &Options{
		Framing: framing.DefaultConfig(),
	}
}
