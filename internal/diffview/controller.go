// Package diffview tracks which file diff is being looked at and keeps
// its fetch lifecycle consistent when the user moves faster than the
// provider responds.
package diffview

import (
	"sync"

	"github.com/commitlens/commitlens/internal/diff"
)

// Selection identifies one file diff: a repository, a commit within it,
// and a file changed by that commit.
type Selection struct {
	RepoPath string
	CommitID string
	FilePath string
}

// Complete reports whether all three parts are set. Incomplete
// selections are never fetched.
func (s Selection) Complete() bool {
	return s.RepoPath != "" && s.CommitID != "" && s.FilePath != ""
}

// Phase is the fetch lifecycle stage of the current selection.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is a snapshot of the controller. Diff is set only in
// PhaseLoaded, Err only in PhaseFailed.
type State struct {
	Phase     Phase
	Selection Selection
	Diff      *diff.FileDiff
	Err       string
}

// Provider fetches the diff for a single file in a commit. It must be
// safe for concurrent use; calls are idempotent reads.
type Provider interface {
	FileDiff(repoPath, commitID, filePath string) (diff.FileDiff, error)
}

// Controller owns the selection state. Select may be called from any
// goroutine; provider responses that no longer match the current
// selection are dropped, so the visible state always belongs to the
// most recent selection.
type Controller struct {
	provider Provider

	mu       sync.Mutex
	state    State
	onChange func()
}

func NewController(provider Provider) *Controller {
	return &Controller{provider: provider}
}

// OnChange registers a callback invoked after every state transition.
// The callback runs without the controller lock held and must not
// block; call State to read the new snapshot.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Select moves the controller to a new selection. An incomplete
// selection clears the view back to idle. Selecting the value already
// current is a no-op, so callers may re-send selections freely. A new
// complete selection starts a fetch; an in-flight fetch for a previous
// selection is not cancelled, its response is discarded on arrival.
func (c *Controller) Select(sel Selection) {
	c.mu.Lock()
	if sel == c.state.Selection && c.state.Phase != PhaseIdle {
		c.mu.Unlock()
		return
	}
	if !sel.Complete() {
		changed := c.state.Phase != PhaseIdle || c.state.Selection != sel
		c.state = State{Phase: PhaseIdle, Selection: sel}
		fn := c.onChange
		c.mu.Unlock()
		if changed && fn != nil {
			fn()
		}
		return
	}
	c.state = State{Phase: PhaseLoading, Selection: sel}
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}

	go c.fetch(sel)
}

func (c *Controller) fetch(sel Selection) {
	d, err := c.provider.FileDiff(sel.RepoPath, sel.CommitID, sel.FilePath)
	c.resolve(sel, d, err)
}

// resolve applies a provider response, unless the user has moved on to
// a different selection in the meantime.
func (c *Controller) resolve(sel Selection, d diff.FileDiff, err error) {
	c.mu.Lock()
	if c.state.Selection != sel || c.state.Phase != PhaseLoading {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = State{Phase: PhaseFailed, Selection: sel, Err: err.Error()}
	} else {
		c.state = State{Phase: PhaseLoaded, Selection: sel, Diff: &d}
	}
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
