package window

import (
	"context"
	"time"
)

// startWatcherLocked samples the window bounds and turns changes into
// OnResize/OnMove calls. c.mu must be held.
func (c *Controller) startWatcherLocked() {
	if c.opts.PollInterval < 0 || c.stopWatch != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.stopWatch = cancel

	w, h := c.rt.Size()
	x, y := c.rt.Position()
	go c.watch(ctx, bounds{w, h, x, y})
}

func (c *Controller) stopWatcherLocked() {
	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
}

type bounds struct {
	w, h, x, y int
}

func (c *Controller) watch(ctx context.Context, last bounds) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var cur bounds
		cur.w, cur.h = c.rt.Size()
		cur.x, cur.y = c.rt.Position()

		if ctx.Err() != nil {
			return
		}
		if cur.w != last.w || cur.h != last.h {
			c.OnResize()
		}
		if cur.x != last.x || cur.y != last.y {
			c.OnMove()
		}
		last = cur
	}
}
