package terminal

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulation-toolkit/sip2gateway/config"
	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/sessions"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/tenants"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

func TestMessageReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		terminator string
		input      string
		want       []string
	}{
		{
			name:  "carriage return",
			input: "9900401.00\r9300CNa|COb|\r",
			want:  []string{"9900401.00", "9300CNa|COb|"},
		},
		{
			name:  "stray line feeds",
			input: "9900401.00\r\n\r\n9300CNa|COb|\r\n",
			want:  []string{"9900401.00", "9300CNa|COb|"},
		},
		{
			name:       "two byte terminator",
			terminator: "\r\n",
			input:      "17abc\rdef\r\n35xyz\r\n",
			want:       []string{"17abc\rdef", "35xyz"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := newMessageReader(strings.NewReader(tc.input), tc.terminator)

			for _, want := range tc.want {
				got, err := r.next()
				require.NoError(t, err)
				assert.Equal(t, want, string(got))
			}

			_, err := r.next()
			require.Error(t, err)
		})
	}
}

func TestMessageReaderTooLarge(t *testing.T) {
	t.Parallel()

	r := newMessageReader(strings.NewReader(strings.Repeat("a", maxMessageSize+10)+"\r"), "\r")

	_, err := r.next()
	require.ErrorIs(t, err, ErrMessageTooLarge)
}

// recordingDispatcher answers every command with the same text, or an error.
type recordingDispatcher struct {
	mu       sync.Mutex
	commands []sip2.Command
	sessions []*entity.Session
	reply    string
	err      error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, s *entity.Session, cmd sip2.Command) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.commands = append(d.commands, cmd)
	d.sessions = append(d.sessions, s)

	return d.reply, d.err
}

func (d *recordingDispatcher) received() []sip2.Command {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]sip2.Command(nil), d.commands...)
}

func newTestServer(t *testing.T, list []config.TenantConfig, d Dispatcher) (*Server, *sessions.Registry) {
	t.Helper()

	log := logger.New("error")

	reg := tenants.New(tenants.StaticSource(list), "", log)
	require.NoError(t, reg.Reload(context.Background()))

	store := sessions.NewRegistry(0, 0, log)
	t.Cleanup(store.Stop)

	srv, err := NewServer(config.SIP2{Host: "127.0.0.1", Port: "0", IdleTimeout: time.Second}, reg, store, d, log)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})

	return srv, store
}

func TestServerAnswersCommands(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{reply: "941"}
	srv, store := newTestServer(t, []config.TenantConfig{{Tenant: "diku", SCSubnet: "127.0.0.0/8"}}, d)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	defer conn.Close()

	reader := bufio.NewReader(conn)

	for range 2 {
		_, err = conn.Write([]byte("9300CNterminal|COsecret|CPcirc|\r"))
		require.NoError(t, err)

		line, err := reader.ReadString('\r')
		require.NoError(t, err)
		assert.Equal(t, "941\r", line)
	}

	assert.Equal(t, 1, store.Count())

	cmds := d.received()
	require.Len(t, cmds, 2)
	assert.True(t, cmds[0].Valid)
	assert.Equal(t, sip2.Login, cmds[0].Type)
	assert.Equal(t, "terminal", cmds[0].Payload.(sip2.LoginRequest).LoginUserID)
	assert.Equal(t, "diku", d.sessions[0].TenantID)
	assert.Same(t, d.sessions[0], d.sessions[1])

	conn.Close()

	assert.Eventually(t, func() bool { return store.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServerPassesUnreadableMessagesAsInvalid(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{reply: "96"}
	srv, _ := newTestServer(t, []config.TenantConfig{{Tenant: "diku", ErrorDetectionEnabled: true}}, d)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	defer conn.Close()

	_, err = conn.Write([]byte("9300CNterminal|COsecret|AY1AZ0000\r"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadString('\r')
	require.NoError(t, err)
	assert.Equal(t, "96\r", line)

	cmds := d.received()
	require.Len(t, cmds, 1)
	assert.False(t, cmds[0].Valid)
	assert.Nil(t, cmds[0].Payload)
}

func TestServerClosesOnProtocolSequenceError(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{err: sessions.ErrNothingToResend.WithMessage("Resend", "nothing")}
	srv, store := newTestServer(t, []config.TenantConfig{{Tenant: "diku"}}, d)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	defer conn.Close()

	_, err = conn.Write([]byte("97\r"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, err = bufio.NewReader(conn).ReadString('\r')
	require.Error(t, err)

	assert.Eventually(t, func() bool { return store.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

// blockingDispatcher holds every command until its context is cancelled.
type blockingDispatcher struct {
	started chan struct{}
	errs    chan error
}

func (d *blockingDispatcher) Dispatch(ctx context.Context, _ *entity.Session, _ sip2.Command) (string, error) {
	close(d.started)

	<-ctx.Done()
	d.errs <- ctx.Err()

	return "", ctx.Err()
}

func TestServerShutdownCancelsInFlightCommands(t *testing.T) {
	t.Parallel()

	d := &blockingDispatcher{started: make(chan struct{}), errs: make(chan error, 1)}
	srv, store := newTestServer(t, []config.TenantConfig{{Tenant: "diku"}}, d)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	defer conn.Close()

	_, err = conn.Write([]byte("9300CNterminal|COsecret|CPcirc|\r"))
	require.NoError(t, err)

	select {
	case <-d.started:
	case <-time.After(2 * time.Second):
		t.Fatal("command was not dispatched")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))
	require.ErrorIs(t, <-d.errs, context.Canceled)
	assert.Zero(t, store.Count())
}

func TestServerRejectsUnknownTerminal(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{reply: "941"}
	srv, store := newTestServer(t, []config.TenantConfig{{Tenant: "diku", SCSubnet: "10.0.0.0/8"}}, d)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, err = bufio.NewReader(conn).ReadString('\r')
	require.Error(t, err)

	assert.Empty(t, d.received())
	assert.Zero(t, store.Count())
}

func TestServerClosesIdleConnections(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{reply: "941"}
	srv, store := newTestServer(t, []config.TenantConfig{{Tenant: "diku"}}, d)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	_, err = bufio.NewReader(conn).ReadString('\r')
	require.Error(t, err)

	assert.Eventually(t, func() bool { return store.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServerTLS(t *testing.T) {
	t.Parallel()

	log := logger.New("error")

	reg := tenants.New(tenants.StaticSource([]config.TenantConfig{{Tenant: "diku"}}), "", log)
	require.NoError(t, reg.Reload(context.Background()))

	store := sessions.NewRegistry(0, 0, log)
	t.Cleanup(store.Stop)

	cfg := config.SIP2{Host: "127.0.0.1", Port: "0", IdleTimeout: time.Second}
	cfg.TLS.Enabled = true

	srv, err := NewServer(cfg, reg, store, &recordingDispatcher{reply: "941"}, log)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})

	conn, err := tls.Dial("tcp", srv.Addr().String(), &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // self-signed test certificate
		MinVersion:         tls.VersionTLS12,
	})
	require.NoError(t, err)

	defer conn.Close()

	_, err = conn.Write([]byte("9300CNterminal|COsecret|\r"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadString('\r')
	require.NoError(t, err)
	assert.Equal(t, "941\r", line)
}
