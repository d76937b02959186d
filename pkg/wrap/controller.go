// ABOUTME: Controller is the WrapMap: owns the current Snapshot plus font/wrap-width state
// ABOUTME: Sync absorbs upstream edits and schedules a bounded-time foreground/background rewrap

package wrap

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/softwrap-go/internal/eventbus"
	"github.com/mauromedda/softwrap-go/internal/log"
)

const (
	rewrapBlockWindow = 5 * time.Millisecond
	flushBlockWindow  = 1 * time.Millisecond
)

type pendingEdit struct {
	tab   TabView
	edits []TabEdit
}

// Controller schedules foreground/background rewrap work over a series of
// tab snapshots and exposes a single authoritative-or-approximate Snapshot
// at a time. It is not safe for concurrent use from more than one goroutine
// on its foreground side; background rewrap tasks run on their own
// goroutine and report back through the controller's mutex.
type Controller struct {
	mu sync.Mutex

	snapshot Snapshot
	measurer LineMeasurer

	wrapWidth *float64
	fontID    string
	fontSize  float64

	pending           []pendingEdit
	interpolatedEdits Patch
	editsSinceSync    Patch

	taskCancel context.CancelFunc
	taskDone   chan struct{}

	changes     *eventbus.Bus[struct{}]
	unsubscribe func()
}

// NewController returns a Controller seeded with the initial tab snapshot in
// unwrapped mode (wrapWidth nil).
func NewController(tab TabView, measurer LineMeasurer) *Controller {
	return &Controller{
		snapshot: New(tab),
		measurer: measurer,
		changes:  eventbus.New[struct{}](),
	}
}

// OnChange registers fn to be invoked after every successful Sync and after
// each background-rewrap reconciliation. Only one handler is retained; a
// later call unsubscribes the previous one before subscribing fn, matching
// spec.md §6's single hook while reusing the bus's general subscribe
// mechanism to deliver it.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unsubscribe = c.changes.Subscribe(func(struct{}) { fn() })
}

func (c *Controller) notifyLocked() {
	go c.changes.Publish(struct{}{})
}

// Sync appends a tab snapshot plus the edits that produced it to the
// pending queue, flushes, and returns the current Snapshot along with the
// wrap-row patch accumulated since the previous Sync.
func (c *Controller) Sync(tab TabView, edits []TabEdit) (Snapshot, Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = append(c.pending, pendingEdit{tab: tab, edits: edits})
	c.flushLocked()

	patch := c.editsSinceSync
	c.editsSinceSync = nil
	c.notifyLocked()
	return c.snapshot, patch
}

// SetWrapWidth changes the configured wrap width. A no-op if unchanged;
// otherwise cancels any in-flight background rewrap, discards accumulated
// interpolation state, and forces a full rewrap.
func (c *Controller) SetWrapWidth(width *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sameWidth(c.wrapWidth, width) {
		return
	}
	if width == nil {
		c.wrapWidth = nil
	} else {
		w := *width
		c.wrapWidth = &w
	}
	c.cancelTaskLocked()
	c.interpolatedEdits = nil
	c.pending = nil
	c.rewrapLocked()
}

// SetFont changes the font identity. Any change triggers an unconditional
// full rewrap, since measurements are no longer valid.
func (c *Controller) SetFont(fontID string, fontSize float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fontID == c.fontID && fontSize == c.fontSize {
		return
	}
	c.fontID = fontID
	c.fontSize = fontSize
	c.rewrapLocked()
}

func sameWidth(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func (c *Controller) cancelTaskLocked() {
	if c.taskCancel != nil {
		c.taskCancel()
		c.taskCancel = nil
		c.taskDone = nil
	}
}

// rewrapLocked drops any running background task and rebuilds the whole
// snapshot. In unwrapped mode this is synchronous and exact; in wrapped
// mode it spawns a background task and blocks briefly for it to finish.
func (c *Controller) rewrapLocked() {
	c.cancelTaskLocked()

	tab := c.currentTabLocked()
	oldRows := c.snapshot.MaxPoint().Row + 1

	if c.wrapWidth == nil {
		c.snapshot = New(tab)
		newRows := c.snapshot.MaxPoint().Row + 1
		patch := Patch{{Old: Range[uint32]{Start: 0, End: oldRows}, New: Range[uint32]{Start: 0, End: newRows}}}
		c.editsSinceSync = Compose(c.editsSinceSync, patch)
		c.pending = nil
		return
	}

	fullEdit := []TabEdit{{
		OldLines: Range[TabPoint]{Start: TabPoint{}, End: c.snapshot.ToTabPoint(c.snapshot.MaxPoint())},
		NewLines: Range[TabPoint]{Start: TabPoint{}, End: tab.MaxPoint()},
	}}
	c.spawnRewrapLocked(tab, fullEdit, rewrapBlockWindow)
}

// flushLocked implements spec.md §4.4's flush: drop stale pending entries
// when the snapshot is authoritative, spawn a background task over
// remaining work when possible, then interpolate whatever is still pending.
// While a background task is still running after its block window, nothing
// is interpolated: the pending entries stay queued and the snapshot is left
// as it was until that task is reconciled.
func (c *Controller) flushLocked() {
	if !c.snapshot.Interpolated {
		kept := c.pending[:0:0]
		for _, p := range c.pending {
			if p.tab.Version() > c.snapshot.TabSnapshot().Version() {
				kept = append(kept, p)
			}
		}
		c.pending = kept
	}

	wasInterpolated := c.snapshot.Interpolated

	if len(c.pending) > 0 && c.wrapWidth != nil && c.taskCancel == nil {
		tab := c.pending[len(c.pending)-1].tab
		var edits []TabEdit
		for _, p := range c.pending {
			edits = append(edits, p.edits...)
		}
		c.spawnRewrapLocked(tab, edits, flushBlockWindow)
	}

	if c.taskCancel != nil {
		return
	}

	var stillFresh []pendingEdit
	for _, p := range c.pending {
		if p.tab.Version() <= c.snapshot.TabSnapshot().Version() {
			continue
		}
		newSnap, patch := c.snapshot.Interpolate(p.tab, p.edits)
		c.snapshot = newSnap
		c.editsSinceSync = Compose(c.editsSinceSync, patch)
		c.interpolatedEdits = Compose(c.interpolatedEdits, patch)
		stillFresh = append(stillFresh, p)
	}
	if wasInterpolated {
		c.pending = stillFresh
	} else {
		c.pending = nil
	}
}

func (c *Controller) currentTabLocked() TabView {
	if n := len(c.pending); n > 0 {
		return c.pending[n-1].tab
	}
	return c.snapshot.TabSnapshot()
}

// spawnRewrapLocked runs update in its own errgroup goroutine (the
// controller never has more than one rewrap in flight) and blocks the
// caller for at most window for it to finish.
//
// On success within the window, the result is adopted synchronously, right
// here, still under the caller's lock — per spec.md §5's "let small
// documents finish synchronously without forcing a redraw of approximate
// state", Sync/SetWrapWidth/SetFont must observe the authoritative snapshot
// in the very call that triggered the rewrap, not a later racy one. On
// timeout the task is left running; a second goroutine waits for it and
// reconciles once it completes, guarding against a stale completion via the
// taskDone identity check (a newer rewrap may have superseded this one by
// then).
func (c *Controller) spawnRewrapLocked(tab TabView, edits []TabEdit, window time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.taskCancel = cancel
	c.taskDone = done

	id := uuid.NewString()
	log.Debug("rewrap %s: started, %d edits", id, len(edits))

	var g errgroup.Group
	var result Snapshot
	var patch Patch

	g.Go(func() error {
		s, p, err := c.snapshot.Update(ctx, tab, edits, *c.wrapWidth, c.measurer)
		if err != nil {
			return err
		}
		result, patch = s, p
		return nil
	})

	errc := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(done)
		errc <- err
	}()

	select {
	case err := <-errc:
		c.taskCancel = nil
		c.taskDone = nil
		if err != nil {
			log.Debug("rewrap %s: cancelled", id)
			return
		}
		log.Debug("rewrap %s: finished synchronously", id)
		c.reconcileLocked(result, patch)
		c.notifyLocked()
	case <-time.After(window):
		log.Debug("rewrap %s: block window elapsed, continuing in background", id)
		go func() {
			err := <-errc
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.taskDone != done {
				return
			}
			c.taskCancel = nil
			c.taskDone = nil
			if err != nil {
				log.Debug("rewrap %s: cancelled", id)
				return
			}
			log.Debug("rewrap %s: finished", id)
			c.reconcileLocked(result, patch)
			c.flushLocked()
			c.notifyLocked()
		}()
	}
}

// reconcileLocked installs a completed background rewrap's result, undoing
// the speculative interpolations shown in the meantime before applying the
// real patch, per spec.md §4.6's "compose the inverse of interpolated_edits
// then the task patch".
func (c *Controller) reconcileLocked(newSnapshot Snapshot, taskPatch Patch) {
	correction := Compose(c.interpolatedEdits.Invert(), taskPatch)
	c.editsSinceSync = Compose(c.editsSinceSync, correction)
	c.interpolatedEdits = nil
	c.snapshot = newSnapshot
}
