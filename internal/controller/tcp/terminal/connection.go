package terminal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/dispatch"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/sessions"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

const defaultTerminator = "\r"

// ErrMessageTooLarge is returned when a terminal sends more than maxMessageSize
// bytes without a message terminator.
var ErrMessageTooLarge = errors.New("message exceeds maximum size")

type connectionContext struct {
	ctx         context.Context
	conn        net.Conn
	reader      *messageReader
	terminator  []byte
	session     *entity.Session
	sessions    SessionStore
	dispatcher  Dispatcher
	idleTimeout time.Duration
	log         logger.Interface
}

func (c *connectionContext) process() {
	for {
		if shouldReturn := c.processNextMessage(); shouldReturn {
			return
		}
	}
}

// processNextMessage reads, dispatches and answers one message.
// Returns true if the connection should be closed.
func (c *connectionContext) processNextMessage() (shouldReturn bool) {
	if err := c.conn.SetDeadline(time.Now().Add(c.idleTimeout)); err != nil {
		c.log.Error("session %s: failed to set deadline: %v", c.session.ID, err)

		return true
	}

	raw, err := c.reader.next()
	if err != nil {
		c.logReadError(err)

		return true
	}

	messagesReceived.Inc()
	c.sessions.Touch(c.session)

	cmd, err := dispatch.ParserFor(c.session).Parse(raw)
	if err != nil {
		c.log.Warn("session %s: unreadable message %q: %v", c.session.ID, cmd.Raw, err)

		cmd.Valid = false
		cmd.Payload = nil
	}

	text, err := c.dispatcher.Dispatch(c.ctx, c.session, cmd)
	if err != nil {
		var sequence sessions.ProtocolSequenceError
		if errors.As(err, &sequence) {
			c.log.Warn("session %s: closing on protocol sequence error: %v", c.session.ID, err)
		} else {
			c.log.Error("session %s: %v", c.session.ID, err)
		}

		return true
	}

	if err := c.write(text); err != nil {
		c.log.Warn("session %s: write error: %v", c.session.ID, err)

		return true
	}

	return false
}

func (c *connectionContext) write(text string) error {
	buf := make([]byte, 0, len(text)+len(c.terminator))
	buf = append(buf, text...)
	buf = append(buf, c.terminator...)

	_, err := c.conn.Write(buf)

	return err
}

func (c *connectionContext) logReadError(err error) {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		c.log.Debug("session %s: connection closed", c.session.ID)
	case errors.Is(err, os.ErrDeadlineExceeded):
		c.log.Info("session %s: idle for %s, closing", c.session.ID, c.idleTimeout)
		connectionsTotal.WithLabelValues(outcomeIdle).Inc()
	default:
		c.log.Warn("session %s: read error: %v", c.session.ID, err)
	}
}

// messageReader splits the byte stream on the tenant's message terminator.
type messageReader struct {
	r          *bufio.Reader
	terminator []byte
}

func newMessageReader(r io.Reader, terminator string) *messageReader {
	if terminator == "" {
		terminator = defaultTerminator
	}

	return &messageReader{
		r:          bufio.NewReaderSize(r, maxMessageSize),
		terminator: []byte(terminator),
	}
}

// next returns the next non-empty message without its terminator. Stray line
// feeds left over from CR LF terminals are dropped.
func (m *messageReader) next() ([]byte, error) {
	last := m.terminator[len(m.terminator)-1]

	var msg []byte

	for {
		chunk, err := m.r.ReadSlice(last)
		msg = append(msg, chunk...)

		if len(msg) > maxMessageSize {
			return nil, ErrMessageTooLarge
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err != nil:
			return nil, err
		}

		if !bytes.HasSuffix(msg, m.terminator) {
			continue
		}

		msg = bytes.TrimLeft(msg[:len(msg)-len(m.terminator)], "\r\n")
		if len(msg) == 0 {
			continue
		}

		return msg, nil
	}
}
