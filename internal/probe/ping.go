package probe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"
)

// DefaultPingTimeout bounds a single echo request.
const DefaultPingTimeout = 2 * time.Second

// pingTimeRe extracts the round-trip time from a successful echo reply,
// e.g. "64 bytes from 10.0.0.5: icmp_seq=1 ttl=64 time=12.3 ms".
var pingTimeRe = regexp.MustCompile(`ttl=\d+ time=((?:\d+\.)?\d+ ms)`)

// PingResult captures the raw outcome of one echo request.
type PingResult struct {
	OK     bool
	Stdout string
	Stderr string
}

// Combined returns stdout and stderr concatenated and trimmed, the
// diagnostic text recorded when a host does not answer.
func (r PingResult) Combined() string {
	return strings.Trim(r.Stdout+"\n"+r.Stderr, "\n\r ")
}

// Pinger runs single-echo reachability checks against a host.
type Pinger struct {
	// Timeout bounds the ping subprocess. Zero means DefaultPingTimeout.
	Timeout time.Duration
}

// countFlag selects the single-probe-count flag for the host platform.
func countFlag() string {
	if runtime.GOOS == "windows" {
		return "-n"
	}
	return "-c"
}

// Probe sends one echo request to host. A non-zero exit from the ping
// binary (host down, no reply) is a reportable failure, not an error;
// the error return is reserved for the probe itself misbehaving (binary
// missing, context trouble), which callers record as state UNKNOWN.
func (p *Pinger) Probe(ctx context.Context, host string) (PingResult, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ping", countFlag(), "1", host)
	// LC_ALL=C keeps the output parseable regardless of system locale.
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := PingResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		result.OK = true
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The binary ran; the host just didn't answer.
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return PingResult{}, ctxErr
	}
	return PingResult{}, err
}

// ParsePingTime extracts the round-trip-time substring ("12.3 ms") from a
// successful echo reply. The second return is false when no time could be
// found, e.g. on exotic ping implementations.
func ParsePingTime(stdout string) (string, bool) {
	m := pingTimeRe.FindStringSubmatch(stdout)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
