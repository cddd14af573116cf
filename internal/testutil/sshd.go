// Package testutil provides an in-process SSH server for transport tests.
package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// ExecHandler answers an exec request with its output and exit status.
type ExecHandler func(cmd string) (string, uint32)

// SubsystemHandler serves a subsystem channel until it returns.
type SubsystemHandler func(name string, ch io.ReadWriter)

type SSHServer struct {
	Host    string
	Port    int
	hostKey ssh.PublicKey

	listener net.Listener
	config   *ssh.ServerConfig
	exec     ExecHandler
	subsys   SubsystemHandler
	wg       sync.WaitGroup
}

// NewSSHServer starts a password-authenticated SSH server on 127.0.0.1.
// It is closed when the test finishes.
func NewSSHServer(t *testing.T, user, pass string, exec ExecHandler, subsys SubsystemHandler) *SSHServer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate host key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("host key signer: %v", err)
	}

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, p []byte) (*ssh.Permissions, error) {
			if c.User() == user && string(p) == pass {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", c.User())
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	portNum, _ := strconv.Atoi(port)

	s := &SSHServer{
		Host:     host,
		Port:     portNum,
		hostKey:  signer.PublicKey(),
		listener: ln,
		config:   cfg,
		exec:     exec,
		subsys:   subsys,
	}

	s.wg.Add(1)
	go s.acceptLoop()

	t.Cleanup(func() {
		ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *SSHServer) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// KnownHosts writes a known_hosts file trusting this server and returns its path.
func (s *SSHServer) KnownHosts(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{knownhosts.Normalize(s.Addr())}, s.hostKey)
	if err := os.WriteFile(path, []byte(line+"\n"), 0o600); err != nil {
		t.Fatalf("write known_hosts: %v", err)
	}
	return path
}

func (s *SSHServer) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *SSHServer) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	_, chans, reqs, err := ssh.NewServerConn(conn, s.config)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		ch, chReqs, err := nc.Accept()
		if err != nil {
			continue
		}
		s.handleSession(ch, chReqs)
	}
}

func (s *SSHServer) handleSession(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer ch.Close()

	for req := range reqs {
		switch req.Type {
		case "exec":
			var payload struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil || s.exec == nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)

			out, code := s.exec(payload.Command)
			_, _ = io.WriteString(ch, out)
			_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{code}))
			return
		case "subsystem":
			var payload struct{ Name string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil || s.subsys == nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)

			go ssh.DiscardRequests(reqs)
			s.subsys(payload.Name, ch)
			return
		default:
			_ = req.Reply(false, nil)
		}
	}
}
