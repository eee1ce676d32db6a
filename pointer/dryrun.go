package pointer

import (
	"log/slog"
	"sync"
)

// DryRun logs every action instead of touching a real pointer.
type DryRun struct {
	logger *slog.Logger

	mu   sync.Mutex
	x, y int
}

// NewDryRun returns a DryRun that starts at (x, y).
func NewDryRun(logger *slog.Logger, x, y int) *DryRun {
	return &DryRun{logger: logger, x: x, y: y}
}

func (d *DryRun) Position() (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.x, d.y, nil
}

func (d *DryRun) MoveTo(x, y int) error {
	d.mu.Lock()
	dx, dy := x-d.x, y-d.y
	d.x, d.y = x, y
	d.mu.Unlock()
	d.logger.Info("move", "x", x, "y", y, "dx", dx, "dy", dy)
	return nil
}

func (d *DryRun) Click(b Button) error {
	d.logger.Info("click", "button", b.String())
	return nil
}

func (d *DryRun) Scroll(delta int) error {
	d.logger.Info("scroll", "delta", delta)
	return nil
}

func (d *DryRun) Close() error { return nil }
