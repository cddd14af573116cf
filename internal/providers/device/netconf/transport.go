package netconf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/providers/sshcli"
	"github.com/scrapli/scrapligo/transport"
	"golang.org/x/crypto/ssh"
)

// Dialer opens the byte stream a NETCONF session runs over.
type Dialer interface {
	Dial(ctx context.Context) (io.ReadWriteCloser, error)
}

type sshDialer struct {
	cfg     *config.DeviceConfig
	addr    string
	timeout time.Duration
}

func newSSHDialer(cfg *config.DeviceConfig) *sshDialer {
	return &sshDialer{
		cfg:     cfg,
		addr:    cfg.GetNetconfAddr(),
		timeout: cfg.NetconfTimeout,
	}
}

func (d *sshDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	clientCfg, err := sshcli.ClientConfig(d.cfg, d.timeout)
	if err != nil {
		return nil, err
	}

	client, err := sshcli.Dial(ctx, d.addr, clientCfg, d.timeout)
	if err != nil {
		return nil, err
	}

	sess, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("SSH session: %w", err)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("SSH stdin: %w", err)
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("SSH stdout: %w", err)
	}

	if err := sess.RequestSubsystem("netconf"); err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("netconf subsystem: %w", err)
	}

	return &channel{Reader: stdout, WriteCloser: stdin, session: sess, client: client}, nil
}

type channel struct {
	io.Reader
	io.WriteCloser
	session *ssh.Session
	client  *ssh.Client
}

func (c *channel) Close() error {
	_ = c.WriteCloser.Close()
	_ = c.session.Close()
	return c.client.Close()
}

var errNotOpen = errors.New("netconf stream is not open")

var _ transport.Implementation = (*stream)(nil)

// stream carries a scrapligo NETCONF driver over a stream opened by a Dialer.
type stream struct {
	ctx    context.Context
	dialer Dialer

	mu     sync.Mutex
	rwc    io.ReadWriteCloser
	closed bool
}

func newStream(ctx context.Context, d Dialer) *stream {
	return &stream{ctx: ctx, dialer: d}
}

func (s *stream) Open(*transport.Args) error {
	rwc, err := s.dialer.Dial(s.ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rwc = rwc
	s.mu.Unlock()
	return nil
}

func (s *stream) conn() io.ReadWriteCloser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rwc
}

func (s *stream) Read(n int) ([]byte, error) {
	rwc := s.conn()
	if rwc == nil {
		return nil, errNotOpen
	}

	b := make([]byte, n)
	read, err := rwc.Read(b)
	if read > 0 {
		return b[:read], nil
	}
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, io.ErrClosedPipe) {
		err = io.EOF
	}
	return nil, err
}

func (s *stream) Write(b []byte) error {
	rwc := s.conn()
	if rwc == nil {
		return errNotOpen
	}
	_, err := rwc.Write(b)
	return err
}

// Close is idempotent; scrapligo may force it while a read is blocked.
func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rwc == nil || s.closed {
		return nil
	}
	s.closed = true
	return s.rwc.Close()
}

func (s *stream) IsAlive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rwc != nil && !s.closed
}
