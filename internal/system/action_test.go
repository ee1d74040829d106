package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakeboard/wakeboard/internal/config"
)

// feedRecorder captures notifier traffic for assertions.
type feedRecorder struct {
	notices   []string
	successes []string
	warnings  []string
}

func (f *feedRecorder) Notify(msg string)  { f.notices = append(f.notices, msg) }
func (f *feedRecorder) Success(msg string) { f.successes = append(f.successes, msg) }
func (f *feedRecorder) Warn(msg string)    { f.warnings = append(f.warnings, msg) }

// fakeWaker records wake attempts.
type fakeWaker struct {
	macs []string
	err  error
}

func (w *fakeWaker) Wake(mac string) error {
	w.macs = append(w.macs, mac)
	return w.err
}

// fakeRunner records remote commands.
type fakeRunner struct {
	cmds   []string
	output string
	err    error
}

func (r *fakeRunner) Run(cmd string) (string, error) {
	r.cmds = append(r.cmds, cmd)
	return r.output, r.err
}

func fullSystem(t *testing.T) (*System, *fakeWaker, *fakeRunner) {
	t.Helper()
	s := New(config.System{
		Name: "nas",
		Ping: &config.PingCheck{Host: "10.0.0.5"},
		WOL:  &config.Wake{MAC: "AA:BB:CC:DD:EE:FF"},
		SSH: &config.Remote{
			Host: "10.0.0.5",
			Port: 22,
			Actions: []config.RemoteAction{
				{Name: "Restart smbd", Run: "sudo systemctl restart smbd"},
				{Name: "Shutdown", Run: "sudo poweroff"},
			},
		},
	})
	w := &fakeWaker{}
	r := &fakeRunner{}
	s.wake = w
	s.runner = r
	return s, w, r
}

func actionNames(actions []Action) []string {
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.Name)
	}
	return names
}

func TestActions_VisibilityByState(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  []string
	}{
		{
			name:  "ok hides wake and offers remote actions",
			state: StateOK,
			want:  []string{"Restart smbd", "Shutdown"},
		},
		{
			name:  "failed offers only wake",
			state: StateFailed,
			want:  []string{"Wake On LAN"},
		},
		{
			name:  "unknown offers wake first then remote actions",
			state: StateUnknown,
			want:  []string{"Wake On LAN", "Restart smbd", "Shutdown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := fullSystem(t)
			s.commit(tt.state, "")
			assert.Equal(t, tt.want, actionNames(s.Actions()))
		})
	}
}

func TestActions_OKWithoutRemote(t *testing.T) {
	s := New(config.System{
		Name: "nas",
		Ping: &config.PingCheck{Host: "10.0.0.5"},
		WOL:  &config.Wake{MAC: "AA:BB:CC:DD:EE:FF"},
	})
	s.commit(StateOK, "Ping: 1 ms")
	assert.Empty(t, s.Actions(), "a reachable wake-only system has nothing to do")
}

func TestActions_UnknownOptOut(t *testing.T) {
	optOut := false
	s := New(config.System{
		Name: "box",
		Ping: &config.PingCheck{Host: "h"},
		SSH: &config.Remote{
			Host:               "h",
			Port:               22,
			ActionsWhenUnknown: &optOut,
			Actions:            []config.RemoteAction{{Name: "Reboot", Run: "sudo reboot"}},
		},
	})
	s.runner = &fakeRunner{}

	assert.Empty(t, s.Actions(), "opted-out remote actions stay hidden while UNKNOWN")

	s.commit(StateOK, "")
	assert.Equal(t, []string{"Reboot"}, actionNames(s.Actions()))
}

func TestActions_RecomputedPerCall(t *testing.T) {
	s, _, _ := fullSystem(t)

	s.commit(StateFailed, "")
	assert.Equal(t, []string{"Wake On LAN"}, actionNames(s.Actions()))

	s.commit(StateOK, "Ping: 1 ms")
	assert.Equal(t, []string{"Restart smbd", "Shutdown"}, actionNames(s.Actions()))
}

func TestWakeAction(t *testing.T) {
	s, w, _ := fullSystem(t)
	s.commit(StateFailed, "")

	feed := &feedRecorder{}
	action, ok := s.ActionByName("Wake On LAN")
	require.True(t, ok)
	require.NoError(t, action.Invoke(feed))

	assert.Equal(t, []string{"AA:BB:CC:DD:EE:FF"}, w.macs)
	require.Len(t, feed.notices, 1)
	assert.Equal(t, "Magic packet sent to wake up 'nas' (AA:BB:CC:DD:EE:FF)", feed.notices[0])
	require.Len(t, feed.successes, 1)
	assert.Equal(t, "Action 'Wake On LAN' finished.", feed.successes[0])
	assert.Empty(t, feed.warnings)
}

func TestWakeAction_Failure(t *testing.T) {
	s, w, _ := fullSystem(t)
	w.err = errors.New("network is down")
	s.commit(StateFailed, "")

	feed := &feedRecorder{}
	action, ok := s.ActionByName("Wake On LAN")
	require.True(t, ok)
	require.Error(t, action.Invoke(feed))

	assert.Empty(t, feed.successes)
	require.Len(t, feed.warnings, 1)
	assert.Contains(t, feed.warnings[0], "Wake On LAN")
	assert.Contains(t, feed.warnings[0], "network is down")
}

func TestRemoteAction(t *testing.T) {
	s, _, r := fullSystem(t)
	s.commit(StateOK, "Ping: 1 ms")

	feed := &feedRecorder{}
	action, ok := s.ActionByName("Restart smbd")
	require.True(t, ok)
	require.NoError(t, action.Invoke(feed))

	assert.Equal(t, []string{"sudo systemctl restart smbd"}, r.cmds)
	require.Len(t, feed.successes, 1)
	assert.Equal(t, "Action 'Restart smbd' finished.", feed.successes[0])
}

func TestRemoteAction_DropsToUnknownWhileRunning(t *testing.T) {
	s, _, r := fullSystem(t)
	s.commit(StateOK, "Ping: 1 ms")

	action, ok := s.ActionByName("Shutdown")
	require.True(t, ok)
	require.NoError(t, action.Invoke(&feedRecorder{}))

	snap := s.Snapshot()
	assert.Equal(t, StateUnknown, snap.State, "state settles on the next refresh")
	assert.Equal(t, "Running 'Shutdown'...", snap.StateVerbose)
	assert.Equal(t, []string{"sudo poweroff"}, r.cmds)
}

func TestRemoteAction_Failure(t *testing.T) {
	s, _, r := fullSystem(t)
	r.err = errors.New("exit code 1, last output: smbd.service not found")
	s.commit(StateOK, "Ping: 1 ms")

	feed := &feedRecorder{}
	action, ok := s.ActionByName("Restart smbd")
	require.True(t, ok)
	require.Error(t, action.Invoke(feed))

	assert.Empty(t, feed.successes)
	require.Len(t, feed.warnings, 1)
	assert.Contains(t, feed.warnings[0], "smbd.service not found")
}

func TestActionByName_Unknown(t *testing.T) {
	s, _, _ := fullSystem(t)
	_, ok := s.ActionByName("Format all disks")
	assert.False(t, ok)
}
