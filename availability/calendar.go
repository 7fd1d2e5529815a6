// Package availability implements the doctor availability calendar: a
// local map of date -> saved half-hour slots kept in sync with the remote
// availability collection through optimistic mutation.
//
// Rollback granularity is deliberate and differs by operation. Toggling a
// single slot rolls back only that slot on failure. Deleting a whole date
// is treated as an atomic batch: its per-slot deletes run in parallel, and
// if any of them fails the entire previous map and date list are restored,
// even for slots whose deletes succeeded. A later reload reconciles those
// with the server.
package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/medleaf/pharmakit"
	"github.com/medleaf/pharmakit/api"
	"github.com/medleaf/pharmakit/mirror"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeSlots is the fixed enumeration of bookable half-hours.
var TimeSlots = buildTimeSlots()

func buildTimeSlots() []string {
	slots := make([]string, 0, 18)
	for h := 9; h < 18; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// IsTimeSlot reports whether t is one of the bookable half-hour labels.
func IsTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// CellState is the render state of one date cell.
type CellState int

const (
	// Past dates are immutable.
	Past CellState = iota
	// Unselected dates have no saved slots and are not being viewed.
	Unselected
	// SelectedInactive dates have saved slots but are not the viewed date.
	SelectedInactive
	// Active is the currently viewed date; its slots are editable.
	Active
)

func (s CellState) String() string {
	switch s {
	case Past:
		return "past"
	case Unselected:
		return "unselected"
	case SelectedInactive:
		return "selected-inactive"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// State is the calendar's local mirror: the slot map plus the selected
// date list (in selection order) and the active date.
type State struct {
	Slots  map[string][]string
	Dates  []string
	Active string
}

func cloneState(s State) State {
	out := State{
		Slots:  make(map[string][]string, len(s.Slots)),
		Dates:  append([]string(nil), s.Dates...),
		Active: s.Active,
	}
	for d, times := range s.Slots {
		out.Slots[d] = append([]string(nil), times...)
	}
	return out
}

// Remote is the server side of the calendar. *api.AvailabilityService
// implements it.
type Remote interface {
	List(ctx context.Context) ([]api.Slot, error)
	Add(ctx context.Context, slot api.Slot) error
	Delete(ctx context.Context, slot api.Slot) error
}

// Calendar manages a doctor's availability.
type Calendar struct {
	mirror *mirror.Mirror[State]
	remote Remote
	logger pharmakit.Logger
	now    func() time.Time
}

// Option configures the Calendar
type Option func(*Calendar)

// WithLogger sets the logger
func WithLogger(l pharmakit.Logger) Option {
	return func(c *Calendar) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces the time source, used by tests and by anything that
// needs a fixed "today".
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) { c.now = now }
}

// New creates an empty calendar.
func New(remote Remote, opts ...Option) *Calendar {
	c := &Calendar{
		mirror: mirror.New(State{Slots: map[string][]string{}}, cloneState),
		remote: remote,
		logger: &pharmakit.NoOpLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the saved slots and rebuilds the local state. Dates come
// out sorted; the first becomes active when one exists.
func (c *Calendar) Load(ctx context.Context) error {
	slots, err := c.remote.List(ctx)
	if err != nil {
		return fmt.Errorf("availability.Load: %w", err)
	}
	state := State{Slots: make(map[string][]string)}
	for _, s := range slots {
		state.Slots[s.Date] = append(state.Slots[s.Date], s.Time)
	}
	for d := range state.Slots {
		sort.Strings(state.Slots[d])
		state.Dates = append(state.Dates, d)
	}
	sort.Strings(state.Dates)
	if len(state.Dates) > 0 {
		state.Active = state.Dates[0]
	}
	c.mirror.Reset(state)
	return nil
}

// State returns a copy of the current calendar state.
func (c *Calendar) State() State {
	return c.mirror.Get()
}

// Subscribe registers a listener for calendar changes.
func (c *Calendar) Subscribe(fn func(State)) func() {
	return c.mirror.Subscribe(fn)
}

// CellState classifies one date cell for rendering.
func (c *Calendar) CellState(date string) CellState {
	if c.isPast(date) {
		return Past
	}
	state := c.mirror.Get()
	if date == state.Active {
		return Active
	}
	for _, d := range state.Dates {
		if d == date {
			return SelectedInactive
		}
	}
	return Unselected
}

// Activate makes a non-past date the viewed date, adding it to the
// selected list if absent. Past dates are immutable.
func (c *Calendar) Activate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return &pharmakit.ClientError{Op: "availability.Activate", Kind: "availability", ID: date, Err: pharmakit.ErrValidation}
	}
	if c.isPast(date) {
		return &pharmakit.ClientError{Op: "availability.Activate", Kind: "availability", ID: date, Err: pharmakit.ErrPastDate}
	}
	c.mirror.Mutate(func(s State) State {
		found := false
		for _, d := range s.Dates {
			if d == date {
				found = true
				break
			}
		}
		if !found {
			s.Dates = append(s.Dates, date)
		}
		s.Active = date
		return s
	})
	c.mirror.MarkSynced()
	return nil
}

// ToggleSlot adds or removes one half-hour under the active date,
// optimistically. Only the toggled slot is rolled back when the remote
// call fails: a failed removal leaves the slot present, a failed add
// leaves it absent.
func (c *Calendar) ToggleSlot(ctx context.Context, slotTime string) error {
	if !IsTimeSlot(slotTime) {
		return &pharmakit.ClientError{Op: "availability.ToggleSlot", Kind: "availability", ID: slotTime, Err: pharmakit.ErrUnknownSlot}
	}
	state := c.mirror.Get()
	if state.Active == "" {
		return &pharmakit.ClientError{Op: "availability.ToggleSlot", Kind: "availability", Err: pharmakit.ErrNoActiveDate}
	}
	if c.isPast(state.Active) {
		return &pharmakit.ClientError{Op: "availability.ToggleSlot", Kind: "availability", ID: state.Active, Err: pharmakit.ErrPastDate}
	}

	date := state.Active
	adding := !containsTime(state.Slots[date], slotTime)

	snapshot := c.mirror.Snapshot()
	c.mirror.Mutate(func(s State) State {
		if adding {
			s.Slots[date] = insertTime(s.Slots[date], slotTime)
		} else {
			s.Slots[date] = removeTime(s.Slots[date], slotTime)
		}
		return s
	})

	slot := api.Slot{Date: date, Time: slotTime}
	var err error
	if adding {
		err = c.remote.Add(ctx, slot)
	} else {
		err = c.remote.Delete(ctx, slot)
	}
	if err != nil {
		c.mirror.Restore(snapshot)
		c.logger.Warn("slot toggle rolled back", map[string]interface{}{
			"operation": "availability.ToggleSlot",
			"date":      date,
			"time":      slotTime,
			"adding":    adding,
			"error":     err.Error(),
		})
		return &pharmakit.ClientError{Op: "availability.ToggleSlot", Kind: "availability", ID: date + " " + slotTime, Err: err}
	}
	c.mirror.MarkSynced()
	return nil
}

// DeleteDate removes a date and every slot under it. The per-slot remote
// deletes run in parallel; the batch is atomic from the caller's point of
// view, so any failure restores the full prior state including slots whose
// deletes succeeded. The active date falls back to the first remaining
// selected date, or to none.
func (c *Calendar) DeleteDate(ctx context.Context, date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return &pharmakit.ClientError{Op: "availability.DeleteDate", Kind: "availability", ID: date, Err: pharmakit.ErrValidation}
	}
	if c.isPast(date) {
		return &pharmakit.ClientError{Op: "availability.DeleteDate", Kind: "availability", ID: date, Err: pharmakit.ErrPastDate}
	}
	snapshot := c.mirror.Snapshot()
	times := append([]string(nil), snapshot.Slots[date]...)

	c.mirror.Mutate(func(s State) State {
		delete(s.Slots, date)
		out := s.Dates[:0]
		for _, d := range s.Dates {
			if d != date {
				out = append(out, d)
			}
		}
		s.Dates = out
		if s.Active == date {
			if len(s.Dates) > 0 {
				s.Active = s.Dates[0]
			} else {
				s.Active = ""
			}
		}
		return s
	})

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range times {
		slot := api.Slot{Date: date, Time: t}
		g.Go(func() error {
			return c.remote.Delete(gctx, slot)
		})
	}
	if err := g.Wait(); err != nil {
		c.mirror.Restore(snapshot)
		c.logger.Warn("date deletion rolled back", map[string]interface{}{
			"operation":  "availability.DeleteDate",
			"date":       date,
			"slot_count": len(times),
			"error":      err.Error(),
		})
		return &pharmakit.ClientError{Op: "availability.DeleteDate", Kind: "availability", ID: date, Err: err}
	}
	c.mirror.MarkSynced()
	return nil
}

// SlotsFor returns the saved times under a date, sorted.
func (c *Calendar) SlotsFor(date string) []string {
	state := c.mirror.Get()
	return append([]string(nil), state.Slots[date]...)
}

func (c *Calendar) isPast(date string) bool {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	y, m, day := c.now().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}

func containsTime(times []string, t string) bool {
	for _, x := range times {
		if x == t {
			return true
		}
	}
	return false
}

func insertTime(times []string, t string) []string {
	times = append(times, t)
	sort.Strings(times)
	return times
}

func removeTime(times []string, t string) []string {
	out := times[:0]
	for _, x := range times {
		if x != t {
			out = append(out, x)
		}
	}
	return out
}
