// Package sshutil opens short-lived SSH sessions for remote actions.
// Connections authenticate with a private key, verify the server against
// the local known_hosts store (unknown hosts are rejected, never trusted
// interactively), and are torn down after a single command.
package sshutil

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/wakeboard/wakeboard/internal/errors"
)

// DefaultDialTimeout bounds the TCP connect plus SSH handshake.
const DefaultDialTimeout = 5 * time.Second

// Target describes one remote endpoint. Unset fields fall back to the
// user's ~/.ssh/config entry for Host, then to the usual defaults.
type Target struct {
	Host       string
	Port       int    // 0 uses ssh_config, then 22
	User       string // "" uses ssh_config, then $USER
	KeyFile    string // "" uses ssh_config IdentityFile, then default key paths
	Passphrase string // for encrypted keys; empty for unencrypted keys
}

// Client wraps an SSH connection with the resolved address.
type Client struct {
	*ssh.Client
	Address string
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// resolve fills unset Target fields from ~/.ssh/config and defaults.
func (t Target) resolve() Target {
	out := t
	if hostname := ssh_config.Get(t.Host, "HostName"); hostname != "" {
		out.Host = hostname
	}
	if out.Port == 0 {
		if port, err := strconv.Atoi(ssh_config.Get(t.Host, "Port")); err == nil && port > 0 {
			out.Port = port
		} else {
			out.Port = 22
		}
	}
	if out.User == "" {
		if user := ssh_config.Get(t.Host, "User"); user != "" {
			out.User = user
		} else if user := os.Getenv("USER"); user != "" {
			out.User = user
		} else {
			out.User = "root"
		}
	}
	if out.KeyFile == "" {
		// Get falls back to the OpenSSH default identity path; only accept
		// an IdentityFile that was actually configured.
		identity := ssh_config.Get(t.Host, "IdentityFile")
		if identity != "" && identity != ssh_config.Default("IdentityFile") {
			out.KeyFile = expandPath(identity)
		}
	}
	return out
}

// Dial connects and authenticates to the target. One Dial maps to one
// action invocation; connections are not pooled or reused.
func Dial(target Target, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	resolved := target.resolve()
	address := net.JoinHostPort(resolved.Host, strconv.Itoa(resolved.Port))

	auth, err := keyFileAuth(resolved.KeyFile, resolved.Passphrase)
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := knownHostsCallback()
	if err != nil {
		return nil, err
	}

	config := &ssh.ClientConfig{
		User:            resolved.User,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach %s", address),
			"Check the host is powered on and SSH is listening")
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		var keyErr *knownhosts.KeyError
		if stderrors.As(err, &keyErr) {
			if len(keyErr.Want) == 0 {
				return nil, errors.WrapWithCode(err, errors.ErrSSH,
					fmt.Sprintf("Host %s is not in known_hosts", address),
					fmt.Sprintf("Add it first: ssh-keyscan %s >> ~/.ssh/known_hosts", resolved.Host))
			}
			return nil, errors.WrapWithCode(err, errors.ErrSSH,
				fmt.Sprintf("Host key mismatch for %s", address),
				fmt.Sprintf("If the host was reinstalled: ssh-keygen -R %s", resolved.Host))
		}
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with %s didn't go through", address),
			"Check the user and key are accepted: ssh -i <key> <user>@<host>")
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Address: address,
	}, nil
}

// keyFileAuth loads a private key, trying the configured file first and
// falling back to the default key locations.
func keyFileAuth(keyFile, passphrase string) (ssh.AuthMethod, error) {
	candidates := []string{}
	if keyFile != "" {
		candidates = append(candidates, expandPath(keyFile))
	} else {
		for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
			candidates = append(candidates, filepath.Join(homeDir(), ".ssh", name))
		}
	}

	var lastErr error
	for _, path := range candidates {
		key, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}

		var signer ssh.Signer
		if passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			var missing *ssh.PassphraseMissingError
			if stderrors.As(err, &missing) {
				return nil, errors.WrapWithCode(err, errors.ErrSSH,
					fmt.Sprintf("Key %s is encrypted", path),
					"Set the key passphrase in the system's ssh config section")
			}
			lastErr = err
			continue
		}
		return ssh.PublicKeys(signer), nil
	}

	return nil, errors.WrapWithCode(lastErr, errors.ErrSSH,
		"No usable SSH key found",
		"Point key_file at a private key, e.g. ~/.ssh/id_ed25519")
}

// knownHostsCallback builds the host key verifier from ~/.ssh/known_hosts.
// The file is created empty if missing, so unknown hosts fail cleanly
// instead of erroring on the missing file.
func knownHostsCallback() (ssh.HostKeyCallback, error) {
	path := knownHostsPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSSH,
				"Cannot create ~/.ssh directory", "")
		}
		if err := os.WriteFile(path, []byte{}, 0600); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSSH,
				"Cannot create known_hosts", "")
		}
	}
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to load known_hosts",
			"Check ~/.ssh/known_hosts for malformed lines")
	}
	return callback, nil
}

// knownHostsFile allows tests to point host key verification at a
// temporary known_hosts store.
var knownHostsFile string

func knownHostsPath() string {
	if knownHostsFile != "" {
		return knownHostsFile
	}
	return filepath.Join(homeDir(), ".ssh", "known_hosts")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
