package program

import (
	"fmt"
	"io"
	"log/slog"
)

// Echo is the human-readable status channel of the programmable block.
type Echo interface {
	Echo(message string)
}

// EchoFunc adapts a function to Echo.
type EchoFunc func(message string)

// Echo calls f(message).
func (f EchoFunc) Echo(message string) { f(message) }

type echoWriter struct {
	w      io.Writer
	logger *slog.Logger
}

// NewEcho returns an Echo that logs every message and, when w is not nil,
// prints it on its own line.
func NewEcho(w io.Writer, logger *slog.Logger) Echo {
	return &echoWriter{w: w, logger: logger}
}

func (e *echoWriter) Echo(message string) {
	if e.logger != nil {
		e.logger.Info("echo", "message", message)
	}
	if e.w != nil {
		fmt.Fprintln(e.w, message)
	}
}
