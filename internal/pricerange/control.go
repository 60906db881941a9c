// Package pricerange implements the two-handle price selector that feeds the
// browse filters. Handle movements are debounced so that a drag produces a
// single change once the shopper stops moving.
package pricerange

import (
	"sync"
	"time"

	"attar-store/internal/domain"

	"github.com/shopspring/decimal"
)

// DebounceDelay is the quiet period before a change is emitted
const DebounceDelay = 500 * time.Millisecond

var step = decimal.NewFromInt(1)

// Option configures a Control
type Option func(*Control)

// WithDelay overrides the debounce delay
func WithDelay(d time.Duration) Option {
	return func(c *Control) {
		c.delay = d
	}
}

// Control holds the handle positions of a price range selector.
// The handles never cross: Min <= Max-1 at all times.
type Control struct {
	mu       sync.Mutex
	bounds   domain.PriceRange
	synced   domain.PriceRange
	current  domain.PriceRange
	onChange func(domain.PriceRange)
	delay    time.Duration
	timer    *time.Timer
	gen      uint64
	closed   bool
}

// New creates a control over bounds with the handles at values.
// onChange runs on its own goroutine after the debounce delay.
func New(bounds, values domain.PriceRange, onChange func(domain.PriceRange), opts ...Option) *Control {
	c := &Control{
		bounds:   bounds,
		synced:   values,
		current:  values,
		onChange: onChange,
		delay:    DebounceDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Disabled reports whether the bounds are degenerate
func (c *Control) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled()
}

func (c *Control) disabled() bool {
	return c.bounds.Min.Equal(c.bounds.Max)
}

// Values returns the current handle positions
func (c *Control) Values() domain.PriceRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Bounds returns the selectable interval
func (c *Control) Bounds() domain.PriceRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

// DragMin moves the lower handle, clamping it to the bounds and below the upper handle
func (c *Control) DragMin(v decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.disabled() {
		return
	}
	v = clamp(v, c.bounds.Min, c.bounds.Max)
	c.current.Min = decimal.Min(v, c.current.Max.Sub(step))
	c.schedule()
}

// DragMax moves the upper handle, clamping it to the bounds and above the lower handle
func (c *Control) DragMax(v decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.disabled() {
		return
	}
	v = clamp(v, c.bounds.Min, c.bounds.Max)
	c.current.Max = decimal.Max(v, c.current.Min.Add(step))
	c.schedule()
}

// EnterMin accepts a typed lower value only when it lies in [bounds.Min, Max-1].
// Rejected entries leave the handle where it was.
func (c *Control) EnterMin(v decimal.Decimal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.disabled() || !AcceptMin(c.bounds, c.current, v) {
		return false
	}
	c.current.Min = v
	c.schedule()
	return true
}

// EnterMax accepts a typed upper value only when it lies in [Min+1, bounds.Max]
func (c *Control) EnterMax(v decimal.Decimal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.disabled() || !AcceptMax(c.bounds, c.current, v) {
		return false
	}
	c.current.Max = v
	c.schedule()
	return true
}

// Sync adopts new bounds and values from the owner and drops any pending change
func (c *Control) Sync(bounds, values domain.PriceRange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
	c.bounds = bounds
	c.synced = values
	c.current = values
}

// Percent positions v along the bounds as a whole percentage; 0 when disabled
func (c *Control) Percent(v decimal.Decimal) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled() {
		return 0
	}
	span := c.bounds.Max.Sub(c.bounds.Min)
	return int(v.Sub(c.bounds.Min).Div(span).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// Close stops the timer; nothing is emitted afterwards
func (c *Control) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
	c.closed = true
}

// schedule restarts the debounce timer. Callers hold mu.
func (c *Control) schedule() {
	c.cancel()
	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(gen)
	})
}

// cancel stops the pending timer and invalidates a callback already in flight. Callers hold mu.
func (c *Control) cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Control) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen || c.current.Equal(c.synced) {
		c.mu.Unlock()
		return
	}
	values := c.current
	c.synced = values
	c.timer = nil
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(values)
	}
}

// AcceptMin reports whether v is a valid typed lower value for the handles at values
func AcceptMin(bounds, values domain.PriceRange, v decimal.Decimal) bool {
	return !v.LessThan(bounds.Min) && !v.GreaterThan(values.Max.Sub(step))
}

// AcceptMax reports whether v is a valid typed upper value for the handles at values
func AcceptMax(bounds, values domain.PriceRange, v decimal.Decimal) bool {
	return !v.GreaterThan(bounds.Max) && !v.LessThan(values.Min.Add(step))
}

// Resolve applies typed entries to handles starting at bounds, lower value first.
// A nil or rejected entry keeps the previous value.
func Resolve(bounds domain.PriceRange, lo, hi *decimal.Decimal) domain.PriceRange {
	values := bounds
	if bounds.Min.Equal(bounds.Max) {
		return values
	}
	if lo != nil && AcceptMin(bounds, values, *lo) {
		values.Min = *lo
	}
	if hi != nil && AcceptMax(bounds, values, *hi) {
		values.Max = *hi
	}
	return values
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(v, hi))
}
