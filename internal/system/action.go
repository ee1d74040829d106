package system

import (
	"fmt"
)

// Notifier receives user-facing feedback from action invocations. The
// dashboard implements it with its notification feed; CLI commands print
// directly.
type Notifier interface {
	// Notify posts a transient informational message.
	Notify(message string)
	// Success posts a transient positive message.
	Success(message string)
	// Warn posts a persistent message that stays until dismissed.
	Warn(message string)
}

// Action is one invokable operation on a system. Actions are rebuilt on
// every Actions call so the list always reflects current state.
type Action struct {
	Name string
	run  func(n Notifier) error
}

// Invoke runs the action and reports its outcome through the notifier.
// Success posts a transient confirmation; failure posts a persistent
// warning and returns the error to the caller.
func (a Action) Invoke(n Notifier) error {
	if err := a.run(n); err != nil {
		n.Warn(fmt.Sprintf("Action '%s' failed: %v", a.Name, err))
		return err
	}
	n.Success(fmt.Sprintf("Action '%s' finished.", a.Name))
	return nil
}

// Actions returns the operations currently offered for this system. The
// wake action leads when the system is not OK; remote actions follow
// unless the state is FAILED, or UNKNOWN with unknown-state actions
// opted out.
func (s *System) Actions() []Action {
	state := s.Snapshot().State

	var actions []Action

	if s.wake != nil && state != StateOK {
		actions = append(actions, s.wakeAction())
	}

	if s.ssh != nil && s.offerRemote(state) {
		for _, a := range s.ssh.Actions {
			actions = append(actions, s.remoteAction(a.Name, a.Run))
		}
	}

	return actions
}

// offerRemote applies the remote-action visibility policy: never while
// FAILED, and while UNKNOWN only if the system hasn't opted out.
func (s *System) offerRemote(state State) bool {
	switch state {
	case StateFailed:
		return false
	case StateUnknown:
		return s.ssh.OfferWhenUnknown()
	default:
		return true
	}
}

func (s *System) wakeAction() Action {
	return Action{
		Name: "Wake On LAN",
		run: func(n Notifier) error {
			if err := s.wake.Wake(s.wolMAC); err != nil {
				return err
			}
			n.Notify(fmt.Sprintf("Magic packet sent to wake up '%s' (%s)", s.name, s.wolMAC))
			return nil
		},
	}
}

func (s *System) remoteAction(name, cmd string) Action {
	return Action{
		Name: name,
		run: func(n Notifier) error {
			// Drop to UNKNOWN while the command runs; the next refresh
			// settles the real state.
			s.commit(StateUnknown, fmt.Sprintf("Running '%s'...", name))
			_, err := s.runner.Run(cmd)
			return err
		},
	}
}

// ActionByName finds a currently-offered action. Used by the one-shot
// CLI commands; the dashboard indexes into Actions directly.
func (s *System) ActionByName(name string) (Action, bool) {
	for _, a := range s.Actions() {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}
