package sshutil

import (
	stderrors "errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/wakeboard/wakeboard/internal/errors"
)

// lastChunkSize limits how much trailing output an ExitError carries.
const lastChunkSize = 1024

// CombinedExec runs one command in a fresh session with stdout and stderr
// merged into a single stream, and returns the combined output. A non-zero
// exit status comes back as an errors.ExitError carrying the status and the
// last chunk of output. The session is closed on every path.
func (c *Client) CombinedExec(cmd string) (string, error) {
	session, err := c.NewSession()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to open SSH session",
			"The connection may have dropped; the next refresh will retry")
	}
	defer session.Close()

	out, err := session.CombinedOutput(cmd)
	output := string(out)
	if err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return output, &errors.ExitError{
				Code:   exitErr.ExitStatus(),
				Output: lastChunk(output),
			}
		}
		return output, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Failed to execute command: %s", cmd),
			"Check the command exists on the remote host")
	}

	return output, nil
}

// RunCommand dials the target, runs a single command and tears the
// connection down again, whatever the outcome.
func RunCommand(target Target, cmd string) (string, error) {
	client, err := Dial(target, 0)
	if err != nil {
		return "", err
	}
	defer client.Close()

	return client.CombinedExec(cmd)
}

// lastChunk trims output to its final lastChunkSize bytes.
func lastChunk(output string) string {
	output = strings.TrimRight(output, "\n")
	if len(output) > lastChunkSize {
		return output[len(output)-lastChunkSize:]
	}
	return output
}
