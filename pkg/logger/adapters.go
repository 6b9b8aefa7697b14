package logger

import (
	"bytes"
	"log"

	"github.com/gin-gonic/gin"
)

// Level picks the method a Writer forwards lines to.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Writer forwards each line written to it to l at the given level.
type Writer struct {
	l     Interface
	level Level
}

// NewWriter -.
func NewWriter(l Interface, level Level) Writer {
	return Writer{l: l, level: level}
}

func (w Writer) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\r\n"))
	if msg == "" {
		return len(p), nil
	}

	switch w.level {
	case LevelWarn:
		w.l.Warn(msg)
	case LevelError:
		w.l.Error(msg)
	default:
		w.l.Info(msg)
	}

	return len(p), nil
}

// StdLogger returns a standard library logger writing through l, for
// packages such as net/http that only accept *log.Logger.
func StdLogger(l Interface, level Level) *log.Logger {
	return log.New(NewWriter(l, level), "", 0)
}

// SetupStdLog routes the global standard library logger through l.
func SetupStdLog(l Interface) {
	log.SetFlags(0)
	log.SetOutput(NewWriter(l, LevelWarn))
}

// SetupGin routes gin's request and error logs through l.
func SetupGin(l Interface) {
	gin.DefaultWriter = NewWriter(l, LevelInfo)
	gin.DefaultErrorWriter = NewWriter(l, LevelError)
}
