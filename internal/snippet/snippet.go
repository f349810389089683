// Package snippet runs interactive tab-stop sessions over an inserted log
// statement. Text typed into the primary slot is copied to every mirror
// slot after each edit. Confirming moves the caret to the end marker;
// cancelling ends the session and keeps whatever was typed.
package snippet

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/quicklog/internal/engine/buffer"
	"github.com/dshills/quicklog/internal/quicklog/placement"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

var (
	ErrNoSession = errors.New("no active tab-stop session")
	ErrNoPrimary = errors.New("plan has no primary slot")
	ErrStale     = errors.New("buffer no longer matches the tab-stop session")
)

// Host is the buffer surface a session edits.
type Host interface {
	TextRange(start, end buffer.ByteOffset) string
	Replace(start, end buffer.ByteOffset, text string) (buffer.ByteOffset, error)
	SetPrimaryCursor(offset buffer.ByteOffset)
}

// Transactor is implemented by hosts that can group the slot edits of one
// keystroke into a single undo step.
type Transactor interface {
	Transaction(name string, fn func() error) error
}

// EditName is the undo entry name of a slot update.
const EditName = "Edit log variable"

// State reports how a session ended.
type State uint8

const (
	StateActive State = iota
	StateConfirmed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	default:
		return "active"
	}
}

// Session is one tab-stop session.
type Session struct {
	ID      string
	plan    placement.AnchoredPlan
	primary string
	state   State
}

// Primary returns the primary slot text.
func (s *Session) Primary() string { return s.primary }

// State returns the session state.
func (s *Session) State() State { return s.state }

// Plan returns the anchored plan.
func (s *Session) Plan() placement.AnchoredPlan { return s.plan }

// Slots returns the current absolute slot ranges.
func (s *Session) Slots() []placement.Slot { return s.plan.SlotsFor(s.primary) }

// PrimaryRange returns the current primary slot range.
func (s *Session) PrimaryRange() buffer.Range { return s.plan.PrimaryRange(s.primary) }

// EndOffset returns the current end marker offset.
func (s *Session) EndOffset() buffer.ByteOffset { return s.plan.EndOffset(s.primary) }

// Text returns the statement as it currently reads.
func (s *Session) Text() string { return s.plan.Text(s.primary) }

// Listener is notified after every change to the active session.
type Listener func(s *Session)

// Controller owns at most one active session for a host.
type Controller struct {
	mu       sync.Mutex
	host     Host
	active   *Session
	listener Listener
}

// NewController creates a Controller editing host.
func NewController(host Host) *Controller {
	return &Controller{host: host}
}

// OnChange registers a listener called after each session change.
func (c *Controller) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = l
}

// Begin starts a session over plan, which must already be in the buffer
// with an empty primary slot. A running session is cancelled first.
func (c *Controller) Begin(plan placement.AnchoredPlan) error {
	if plan.Plan == nil {
		return ErrNoPrimary
	}
	if p, _ := plan.Plan.Counts(); p == 0 {
		return ErrNoPrimary
	}

	c.mu.Lock()
	if c.active != nil {
		c.active.state = StateCancelled
	}
	s := &Session{ID: uuid.NewString(), plan: plan}
	if err := c.verifyLocked(s); err != nil {
		c.active = nil
		c.mu.Unlock()
		return err
	}
	c.active = s
	c.host.SetPrimaryCursor(s.PrimaryRange().End)
	c.mu.Unlock()

	c.notify(s)
	return nil
}

// Active returns the running session or nil.
func (c *Controller) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsActive reports whether a session is running.
func (c *Controller) IsActive() bool {
	return c.Active() != nil
}

// Insert appends text to the primary slot.
func (c *Controller) Insert(text string) error {
	return c.update(func(cur string) string { return cur + text })
}

// Backspace removes the last rune of the primary slot.
func (c *Controller) Backspace() error {
	return c.update(func(cur string) string {
		if cur == "" {
			return cur
		}
		_, size := utf8.DecodeLastRuneInString(cur)
		return cur[:len(cur)-size]
	})
}

// SetText replaces the primary slot text.
func (c *Controller) SetText(text string) error {
	return c.update(func(string) string { return text })
}

// Confirm ends the session and moves the caret to the end marker.
func (c *Controller) Confirm() (*Session, error) {
	c.mu.Lock()
	s := c.active
	if s == nil {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	c.active = nil
	s.state = StateConfirmed
	c.host.SetPrimaryCursor(s.EndOffset())
	c.mu.Unlock()

	c.notify(s)
	return s, nil
}

// Cancel ends the session without moving the caret.
func (c *Controller) Cancel() (*Session, error) {
	c.mu.Lock()
	s := c.active
	if s == nil {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	c.active = nil
	s.state = StateCancelled
	c.mu.Unlock()

	c.notify(s)
	return s, nil
}

func (c *Controller) update(next func(string) string) error {
	c.mu.Lock()
	s := c.active
	if s == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if err := c.verifyLocked(s); err != nil {
		c.active = nil
		s.state = StateCancelled
		c.mu.Unlock()
		return err
	}

	text := next(s.primary)
	if text == s.primary {
		c.mu.Unlock()
		return nil
	}
	if err := c.rewriteLocked(s, text); err != nil {
		c.mu.Unlock()
		return err
	}
	c.host.SetPrimaryCursor(s.PrimaryRange().End)
	c.mu.Unlock()

	c.notify(s)
	return nil
}

// rewriteLocked replaces every variable slot, highest offset first, so the
// lower slot ranges stay valid while editing.
func (c *Controller) rewriteLocked(s *Session, text string) error {
	var slots []placement.Slot
	for _, slot := range s.Slots() {
		if slot.Kind == template.SegmentPrimary || slot.Kind == template.SegmentMirror {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Range.Start > slots[j].Range.Start })

	apply := func() error {
		for _, slot := range slots {
			if _, err := c.host.Replace(slot.Range.Start, slot.Range.End, text); err != nil {
				return fmt.Errorf("update %s slot: %w", slot.Kind, err)
			}
		}
		return nil
	}

	var err error
	if tx, ok := c.host.(Transactor); ok {
		err = tx.Transaction(EditName, apply)
	} else {
		err = apply()
	}
	if err != nil {
		return err
	}
	s.primary = text
	return nil
}

func (c *Controller) verifyLocked(s *Session) error {
	r := buffer.NewRange(s.plan.Base, s.plan.Base+buffer.ByteOffset(len(s.plan.Plan.Render(s.primary))))
	if c.host.TextRange(r.Start, r.End) != s.plan.Plan.Render(s.primary) {
		return ErrStale
	}
	return nil
}

func (c *Controller) notify(s *Session) {
	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()
	if l != nil {
		l(s)
	}
}
