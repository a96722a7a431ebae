// Package mail delivers outgoing email.
package mail

import (
	"context"
	"io"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client is the subset of an SMTP session used to deliver one message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transport opens authenticated SMTP sessions.
type Transport interface {
	Connect(ctx context.Context) (Client, error)
}
