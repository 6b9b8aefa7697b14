// Package dispatch routes parsed SIP2 commands to their handlers and renders
// the answer.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/circulation-toolkit/sip2gateway/internal/cache"
	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/sessions"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"
	outcomeFailed   = "failed"
	outcomeClosed   = "closed"

	invalidCommand = "invalid"
)

// ErrUnexpectedPayload means a command's payload is not the type its handler serves.
var ErrUnexpectedPayload = errors.New("unexpected command payload")

// Reply is what a handler answers with: a response to render, or text that
// was rendered earlier and goes out verbatim.
type Reply struct {
	Response sip2.Response
	Verbatim string
}

// Handler serves one command type.
type Handler interface {
	// Handle answers cmd. On failure it stores a degraded response in the
	// session's error slot and returns the cause.
	Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error)
	// WritesHistory reports whether the answer becomes the session's resend target.
	WritesHistory() bool
}

// Backend groups the use cases the handlers call.
type Backend struct {
	Auth          Authenticator
	Patrons       Patrons
	Profiles      Profiles
	Circulation   Circulation
	Payments      Payments
	Items         Items
	Configuration Configuration

	// ServicePoints caches login location codes resolved to service point ids.
	ServicePoints *cache.Cache
	// MaxRenewals bounds the loans a renew-all command renews.
	MaxRenewals int
}

// Dispatcher owns the command table. It is safe for concurrent use; all
// per-terminal state lives in the session.
type Dispatcher struct {
	renderer Renderer
	resend   *sessions.ResendCache
	handlers map[sip2.CommandType]Handler
	invalid  Handler
	log      logger.Interface
}

// New builds the dispatcher and its command table.
func New(b Backend, renderer Renderer, resend *sessions.ResendCache, log logger.Interface) *Dispatcher {
	if b.MaxRenewals < 1 {
		b.MaxRenewals = defaultMaxRenewals
	}

	common := &base{b: &b, validate: validator.New(), log: log, now: time.Now}

	d := &Dispatcher{
		renderer: renderer,
		resend:   resend,
		invalid:  invalidHandler{},
		log:      log,
	}

	d.handlers = map[sip2.CommandType]Handler{
		sip2.SCStatus:            &scStatusHandler{base: common},
		sip2.Login:               &loginHandler{base: common},
		sip2.Checkin:             &checkinHandler{base: common},
		sip2.Checkout:            &checkoutHandler{base: common},
		sip2.PatronStatusRequest: &patronStatusHandler{base: common},
		sip2.PatronInformation:   &patronInformationHandler{base: common},
		sip2.FeePaid:             &feePaidHandler{base: common},
		sip2.ItemInformation:     &itemInformationHandler{base: common},
		sip2.Renew:               &renewHandler{base: common},
		sip2.RenewAll:            &renewAllHandler{base: common},
		sip2.EndPatronSession:    &endPatronSessionHandler{base: common},
		sip2.RequestACSResend:    resendHandler{cache: resend},
	}

	common.supported = d.Supports

	return d
}

// Supports reports whether the command table has a handler for t.
func (d *Dispatcher) Supports(t sip2.CommandType) bool {
	_, ok := d.handlers[t]

	return ok
}

// Dispatch handles one command and returns the text to send, without the
// message terminator. A ProtocolSequenceError is returned as is: the
// transport closes the connection on it. Any other handler failure is
// answered with the handler's degraded response.
func (d *Dispatcher) Dispatch(ctx context.Context, s *entity.Session, cmd sip2.Command) (string, error) {
	start := time.Now()
	s.RequestID = uuid.NewString()

	h, label := d.handler(cmd)

	defer func() {
		commandSeconds.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	reply, err := h.Handle(ctx, s, cmd)
	outcome := outcomeOK

	if err != nil {
		var sequence sessions.ProtocolSequenceError
		if errors.As(err, &sequence) {
			commandsHandled.WithLabelValues(label, outcomeClosed).Inc()

			return "", err
		}

		d.log.Warn("session %s: command %s failed: %v", s.ID, label, err)

		outcome = outcomeDegraded

		degraded, ok := s.TakeErrorResponse().(sip2.Response)
		if !ok {
			outcome = outcomeFailed
			degraded = sip2.SCResendResponse{}
		}

		reply = Reply{Response: degraded}
	}

	text := reply.Verbatim

	if reply.Response != nil {
		text, err = d.renderer.Render(reply.Response, FormatFor(s, cmd.SequenceNumber))
		if err != nil {
			commandsHandled.WithLabelValues(label, outcomeFailed).Inc()

			return "", fmt.Errorf("render %s: %w", reply.Response.Code(), err)
		}
	}

	if h.WritesHistory() {
		d.resend.Record(s, cmd.SequenceNumber, cmd.Checksum, text)
	}

	commandsHandled.WithLabelValues(label, outcome).Inc()

	return text, nil
}

func (d *Dispatcher) handler(cmd sip2.Command) (Handler, string) {
	if !cmd.Valid {
		return d.invalid, invalidCommand
	}

	if h, ok := d.handlers[cmd.Type]; ok {
		return h, string(cmd.Type)
	}

	return d.invalid, invalidCommand
}

// FormatFor returns the presentation settings of s for a response to a
// command with sequence number seq.
func FormatFor(s *entity.Session, seq int) sip2.Format {
	enc, _ := sip2.Encoding(s.Charset)

	return sip2.Format{
		Delimiter:      s.FieldDelimiter,
		Location:       s.Location(),
		MaxPrintWidth:  s.MaxPrintWidth,
		ErrorDetection: s.ErrorDetectionEnabled,
		SequenceNumber: seq,
		Encoding:       enc,
	}
}

// ParserFor returns a parser reading messages the way s expects them.
func ParserFor(s *entity.Session) *sip2.Parser {
	enc, _ := sip2.Encoding(s.Charset)

	return &sip2.Parser{
		Delimiter:      s.FieldDelimiter,
		ErrorDetection: s.ErrorDetectionEnabled,
		Encoding:       enc,
		Location:       s.Location(),
	}
}

// invalidHandler asks the terminal to send its last message again.
type invalidHandler struct{}

func (invalidHandler) Handle(context.Context, *entity.Session, sip2.Command) (Reply, error) {
	return Reply{Response: sip2.SCResendResponse{}}, nil
}

func (invalidHandler) WritesHistory() bool { return false }

// resendHandler repeats the last response verbatim.
type resendHandler struct {
	cache *sessions.ResendCache
}

func (h resendHandler) Handle(_ context.Context, s *entity.Session, _ sip2.Command) (Reply, error) {
	text, err := h.cache.Resend(s)
	if err != nil {
		return Reply{}, err
	}

	return Reply{Verbatim: text}, nil
}

func (resendHandler) WritesHistory() bool { return false }
