package sessions

import "github.com/circulation-toolkit/sip2gateway/internal/entity"

const noPreviousMessage = "no previous message to resend"

// ResendCache keeps the last response of each session so a terminal can ask
// for it again without the command being executed twice.
type ResendCache struct{}

// NewResendCache -.
func NewResendCache() *ResendCache {
	return &ResendCache{}
}

// Record replaces the stored response unconditionally.
func (c *ResendCache) Record(s *entity.Session, seq int, checksum, text string) {
	s.PreviousResponse = &entity.PreviousResponse{
		SequenceNumber: seq,
		Checksum:       checksum,
		Text:           text,
	}
}

// Resend returns the stored response text verbatim.
func (c *ResendCache) Resend(s *entity.Session) (string, error) {
	if s.PreviousResponse == nil {
		resendsServed.WithLabelValues("empty").Inc()

		return "", ErrNothingToResend.WithMessage("Resend", noPreviousMessage)
	}

	resendsServed.WithLabelValues("served").Inc()

	return s.PreviousResponse.Text, nil
}
