package sshutil

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/wakeboard/wakeboard/internal/errors"
)

// fakeCommand describes what the test server returns for one exec request.
type fakeCommand struct {
	output string
	status uint32
}

// testServer is a minimal in-process SSH server handling exec requests.
type testServer struct {
	listener net.Listener
	hostKey  ssh.Signer
	commands map[string]fakeCommand
	port     int
}

func newSigner(t *testing.T) ssh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer
}

func startTestServer(t *testing.T, clientKey ssh.PublicKey, commands map[string]fakeCommand) *testServer {
	t.Helper()

	hostKey := newSigner(t)
	config := &ssh.ServerConfig{
		PublicKeyCallback: func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if bytes.Equal(key.Marshal(), clientKey.Marshal()) {
				return nil, nil
			}
			return nil, os.ErrPermission
		},
	}
	config.AddHostKey(hostKey)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	srv := &testServer{
		listener: listener,
		hostKey:  hostKey,
		commands: commands,
		port:     listener.Addr().(*net.TCPAddr).Port,
	}

	go srv.serve(config)
	return srv
}

func (s *testServer) serve(config *ssh.ServerConfig) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn, config)
	}
}

func (s *testServer) handleConn(conn net.Conn, config *ssh.ServerConfig) {
	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		return
	}
	defer sshConn.Close()
	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, chReqs, err := newChan.Accept()
		if err != nil {
			continue
		}
		go s.handleSession(ch, chReqs)
	}
}

func (s *testServer) handleSession(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer ch.Close()
	for req := range reqs {
		if req.Type != "exec" {
			req.Reply(false, nil)
			continue
		}
		var payload struct{ Command string }
		if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
			req.Reply(false, nil)
			continue
		}
		req.Reply(true, nil)

		cmd, ok := s.commands[payload.Command]
		if !ok {
			cmd = fakeCommand{output: "command not found\n", status: 127}
		}
		ch.Write([]byte(cmd.output))
		ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{cmd.status}))
		return
	}
}

// writeClientKey writes an OpenSSH private key file and returns its path
// and public half.
func writeClientKey(t *testing.T) (string, ssh.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))

	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return path, sshPub
}

// trustHost writes a temporary known_hosts file containing the server's
// host key and points the package at it for the duration of the test.
func trustHost(t *testing.T, srv *testServer) {
	t.Helper()
	address := net.JoinHostPort("127.0.0.1", strconv.Itoa(srv.port))
	line := knownhosts.Line([]string{address}, srv.hostKey.PublicKey())

	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0600))

	knownHostsFile = path
	t.Cleanup(func() { knownHostsFile = "" })
}

// emptyKnownHosts points the package at an empty known_hosts store.
func emptyKnownHosts(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, []byte{}, 0600))
	knownHostsFile = path
	t.Cleanup(func() { knownHostsFile = "" })
}

func dialTestServer(t *testing.T, srv *testServer, keyFile string) *Client {
	t.Helper()
	client, err := Dial(Target{
		Host:    "127.0.0.1",
		Port:    srv.port,
		User:    "tester",
		KeyFile: keyFile,
	}, 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCombinedExec_Success(t *testing.T) {
	keyFile, pub := writeClientKey(t)
	srv := startTestServer(t, pub, map[string]fakeCommand{
		"uptime": {output: "up 12 days\n", status: 0},
	})
	trustHost(t, srv)

	client := dialTestServer(t, srv, keyFile)
	output, err := client.CombinedExec("uptime")

	require.NoError(t, err)
	assert.Equal(t, "up 12 days\n", output)
}

func TestCombinedExec_NonZeroExit(t *testing.T) {
	keyFile, pub := writeClientKey(t)
	srv := startTestServer(t, pub, map[string]fakeCommand{
		"systemctl restart nope": {output: "Unit nope.service not found.\n", status: 1},
	})
	trustHost(t, srv)

	client := dialTestServer(t, srv, keyFile)
	_, err := client.CombinedExec("systemctl restart nope")

	require.Error(t, err)
	code, ok := errors.GetExitCode(err)
	require.True(t, ok, "error should carry the exit code")
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), "Unit nope.service not found.",
		"error should carry the last output chunk")
}

func TestDial_UnknownHostRejected(t *testing.T) {
	keyFile, pub := writeClientKey(t)
	srv := startTestServer(t, pub, nil)
	emptyKnownHosts(t)

	_, err := Dial(Target{
		Host:    "127.0.0.1",
		Port:    srv.port,
		User:    "tester",
		KeyFile: keyFile,
	}, 0)

	require.Error(t, err, "a host missing from known_hosts must be rejected")
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.Contains(t, err.Error(), "known_hosts")
}

func TestRunCommand_OneShot(t *testing.T) {
	keyFile, pub := writeClientKey(t)
	srv := startTestServer(t, pub, map[string]fakeCommand{
		"true": {output: "", status: 0},
	})
	trustHost(t, srv)

	output, err := RunCommand(Target{
		Host:    "127.0.0.1",
		Port:    srv.port,
		User:    "tester",
		KeyFile: keyFile,
	}, "true")

	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestLastChunk(t *testing.T) {
	assert.Equal(t, "short", lastChunk("short\n"))

	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'x'
	}
	chunk := lastChunk(string(long))
	assert.Len(t, chunk, lastChunkSize)
}
