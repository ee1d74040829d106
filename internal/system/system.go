// Package system holds the core monitored-entity model: a System composes
// exactly one health capability (ping or http) with optional wake and
// remote-command capabilities, cycles through OK/FAILED/UNKNOWN on refresh,
// and derives its action list from current state plus configured
// capabilities on every call.
package system

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wakeboard/wakeboard/internal/config"
	"github.com/wakeboard/wakeboard/internal/probe"
	"github.com/wakeboard/wakeboard/internal/wol"
	"github.com/wakeboard/wakeboard/pkg/sshutil"
)

// State is the tri-state health of a system.
type State int

const (
	// StateUnknown is the initial state and the containment state for
	// probe anomalies.
	StateUnknown State = iota
	StateOK
	StateFailed
)

// String returns the display form of a state.
func (s State) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is an atomic copy of a system's identity and mutable state,
// safe to read while a refresh is in flight.
type Snapshot struct {
	Name         string
	Description  string
	State        State
	StateVerbose string
	LastUpdate   time.Time
}

// healthProbe is the single mandatory capability driving Refresh.
type healthProbe interface {
	Check(ctx context.Context) (State, string)
}

// waker sends a wake signal to a hardware address.
type waker interface {
	Wake(mac string) error
}

// commandRunner executes one remote command and returns its combined output.
type commandRunner interface {
	Run(cmd string) (string, error)
}

// System is one monitored entity. Identity and capability config are
// immutable after construction; state, stateVerbose and lastUpdate are
// updated together under the mutex so readers never see a torn snapshot.
type System struct {
	name        string
	description string

	health healthProbe
	wolMAC string
	wake   waker
	ssh    *config.Remote
	runner commandRunner

	mu           sync.RWMutex
	state        State
	stateVerbose string
	lastUpdate   time.Time
}

// New builds a System from its configuration. The config is assumed
// validated: exactly one health capability is set.
func New(cfg config.System) *System {
	s := &System{
		name:        cfg.Name,
		description: cfg.Description,
		state:       StateUnknown,
	}

	if cfg.Ping != nil {
		s.health = &pingHealth{host: cfg.Ping.Host, pinger: &probe.Pinger{}}
	} else if cfg.HTTP != nil {
		s.health = &httpHealth{
			url:    cfg.HTTP.URL,
			prober: probe.NewHTTPProber(cfg.HTTP.ExpectedStatus, cfg.HTTP.AllowSelfSigned),
		}
	}

	if cfg.WOL != nil {
		s.wolMAC = cfg.WOL.MAC
		s.wake = &wol.Sender{}
	}

	if cfg.SSH != nil {
		s.ssh = cfg.SSH
		s.runner = &sshRunner{target: sshutil.Target{
			Host:       cfg.SSH.Host,
			Port:       cfg.SSH.Port,
			User:       cfg.SSH.User,
			KeyFile:    cfg.SSH.KeyFile,
			Passphrase: cfg.SSH.Passphrase,
		}}
	}

	return s
}

// Build constructs all systems from a validated config, in config order.
func Build(cfg *config.Config) []*System {
	systems := make([]*System, 0, len(cfg.Systems))
	for _, sc := range cfg.Systems {
		systems = append(systems, New(sc))
	}
	return systems
}

// Name returns the system's identifier.
func (s *System) Name() string { return s.name }

// Snapshot returns the current state fields as one consistent copy.
func (s *System) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Name:         s.name,
		Description:  s.description,
		State:        s.state,
		StateVerbose: s.stateVerbose,
		LastUpdate:   s.lastUpdate,
	}
}

// Refresh runs the health capability and commits the outcome. It always
// terminates in one of the three valid states; probe anomalies are
// contained as UNKNOWN and never escape.
func (s *System) Refresh(ctx context.Context) {
	state, verbose := s.health.Check(ctx)
	s.commit(state, verbose)
}

// commit updates the three state fields together.
func (s *System) commit(state State, verbose string) {
	s.mu.Lock()
	s.state = state
	s.stateVerbose = verbose
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

// pingHealth drives state from a single echo request.
type pingHealth struct {
	host   string
	pinger *probe.Pinger
}

func (p *pingHealth) Check(ctx context.Context) (State, string) {
	return mapPingResult(p.pinger.Probe(ctx, p.host))
}

// mapPingResult turns a raw ping outcome into state and display text.
// A successful reply shows the extracted round-trip time, lost packets
// show the full output, and anomalies are contained as UNKNOWN.
func mapPingResult(result probe.PingResult, err error) (State, string) {
	if err != nil {
		return StateUnknown, fmt.Sprintf("Exception: %v", err)
	}
	if !result.OK {
		return StateFailed, result.Combined()
	}
	if rtt, ok := probe.ParsePingTime(result.Stdout); ok {
		return StateOK, fmt.Sprintf("Ping: %s", rtt)
	}
	return StateOK, strings.Trim(result.Stdout, "\n\r ")
}

// httpHealth drives state from a HEAD request.
type httpHealth struct {
	url    string
	prober *probe.HTTPProber
}

func (h *httpHealth) Check(ctx context.Context) (State, string) {
	outcome := h.prober.Probe(ctx, h.url)
	switch outcome.Status {
	case probe.StatusOK:
		return StateOK, outcome.Detail
	case probe.StatusFailed:
		return StateFailed, outcome.Detail
	default:
		return StateUnknown, outcome.Detail
	}
}

// sshRunner opens one connection per command, per the one-session-per-
// invocation contract.
type sshRunner struct {
	target sshutil.Target
}

func (r *sshRunner) Run(cmd string) (string, error) {
	return sshutil.RunCommand(r.target, cmd)
}
