package dashboard

import (
	"sync"
	"time"
)

// noticeTTL is how long transient notices stay visible.
const noticeTTL = 5 * time.Second

// Notice is one feed entry. Persistent notices stay until dismissed,
// transient ones age out after noticeTTL.
type Notice struct {
	Text       string
	Persistent bool
	Positive   bool
	At         time.Time
}

// Feed collects action feedback for the dashboard. Actions run on their
// own goroutines, so all access is mutex-guarded.
type Feed struct {
	mu      sync.Mutex
	notices []Notice
}

// NewFeed creates an empty notification feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Notify posts a transient informational message.
func (f *Feed) Notify(message string) {
	f.add(Notice{Text: message, At: time.Now()})
}

// Success posts a transient positive message.
func (f *Feed) Success(message string) {
	f.add(Notice{Text: message, Positive: true, At: time.Now()})
}

// Warn posts a persistent message that stays until dismissed.
func (f *Feed) Warn(message string) {
	f.add(Notice{Text: message, Persistent: true, At: time.Now()})
}

func (f *Feed) add(n Notice) {
	f.mu.Lock()
	f.notices = append(f.notices, n)
	f.mu.Unlock()
}

// Active returns the notices still worth showing, pruning expired
// transient entries as a side effect.
func (f *Feed) Active() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	cutoff := time.Now().Add(-noticeTTL)
	kept := f.notices[:0]
	for _, n := range f.notices {
		if n.Persistent || n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	f.notices = kept

	out := make([]Notice, len(f.notices))
	copy(out, f.notices)
	return out
}

// Dismiss drops all persistent notices.
func (f *Feed) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.notices[:0]
	for _, n := range f.notices {
		if !n.Persistent {
			kept = append(kept, n)
		}
	}
	f.notices = kept
}
