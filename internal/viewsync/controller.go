// Package viewsync keeps the source and translation panes pointing at the
// same paragraph. There is one logical selection and one logical scroll
// position; the two panes are just two renderings of it.
package viewsync

import "sync"

// Side identifies which pane an event originated from.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Pane is the view surface the controller drives. Implementations must
// tolerate being called re-entrantly from their own event handlers; the
// controller suppresses the echo.
type Pane interface {
	// SetCurrent highlights and reveals the paragraph at index.
	SetCurrent(index int)

	// ScrollToRatio scrolls the pane to ratio in [0,1] of its content.
	ScrollToRatio(ratio float64)
}

// Controller mirrors selection and scrolling between two panes.
type Controller struct {
	mu      sync.Mutex
	left    Pane
	right   Pane
	n       int
	current int
	ratio   float64
	syncing bool
}

// New creates a controller with no panes attached and no selection.
func New() *Controller {
	return &Controller{current: -1}
}

// Attach wires the two panes. Panes may be attached once the GUI widgets
// exist, after the controller itself is created.
func (c *Controller) Attach(left, right Pane) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.left = left
	c.right = right
}

// Reset clears the selection for a newly loaded document of n paragraphs.
func (c *Controller) Reset(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = n
	c.current = -1
	c.ratio = 0
}

// Current returns the selected index, or false when nothing is selected.
func (c *Controller) Current() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current < 0 {
		return 0, false
	}
	return c.current, true
}

// Select records a user selection made on one pane and applies it to both.
// Out-of-range indices are ignored. After Select returns, both panes have
// been told the same index.
func (c *Controller) Select(from Side, index int) {
	c.mu.Lock()
	if c.syncing || index < 0 || index >= c.n {
		c.mu.Unlock()
		return
	}
	c.syncing = true
	c.current = index
	left, right := c.left, c.right
	c.mu.Unlock()

	// Both panes get the update; the originating pane's echo is
	// suppressed by the syncing flag.
	if left != nil {
		left.SetCurrent(index)
	}
	if right != nil {
		right.SetCurrent(index)
	}

	c.mu.Lock()
	c.syncing = false
	c.mu.Unlock()
}

// Scroll records a scroll position from one pane and mirrors it onto the
// other, proportionally: both panes show the same relative range even when
// their content heights differ.
func (c *Controller) Scroll(from Side, ratio float64) {
	c.mu.Lock()
	if c.syncing {
		c.mu.Unlock()
		return
	}
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	c.syncing = true
	c.ratio = ratio
	var other Pane
	if from == Left {
		other = c.right
	} else {
		other = c.left
	}
	c.mu.Unlock()

	if other != nil {
		other.ScrollToRatio(ratio)
	}

	c.mu.Lock()
	c.syncing = false
	c.mu.Unlock()
}

// ScrollRatio returns the last recorded scroll position.
func (c *Controller) ScrollRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ratio
}
