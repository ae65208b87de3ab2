package energy

import (
	"errors"
	"fmt"
	"log"
	"time"

	"emberlog/internal/event"
	"emberlog/internal/stats"
)

const (
	DefaultMaxEnergy     = 12
	RegenerationInterval = 15 * time.Minute
	RegenerationAmount   = 1

	MinBreakMinutes = 5
	MaxBreakMinutes = 60
	// One energy point restored per this much break time.
	BreakRestoreInterval = 15 * time.Minute
)

// Rejected-operation errors. These are precondition violations surfaced to
// the caller with enough context for a user-facing message, never silently
// coerced.
var (
	ErrOnBreak            = errors.New("cannot consume energy while on break")
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrAlreadyOnBreak     = errors.New("already on break")
	ErrEnergyFull         = errors.New("energy already at maximum")
	ErrNotOnBreak         = errors.New("not on break")
	ErrInvalidAmount      = errors.New("energy amount must be positive")
)

// TaskMetadata is the coupling point with the task layer: when present on a
// consume request, the energy cost is computed from it and any explicit
// amount is ignored.
type TaskMetadata struct {
	Effort   *string `json:"effort"`
	Friction *int    `json:"friction"`
}

type Options struct {
	Store         SessionStore
	Bus           *event.Bus
	Clock         Clock
	Logger        *log.Logger
	MaxEnergy     int
	RegenInterval time.Duration

	BreakMinMinutes int
	BreakMaxMinutes int
	// Energy points restored per BreakRestoreInterval of break time.
	BreakRestorePerInterval int
}

// Engine owns all per-session energy state transitions. Every operation runs
// under the target session's own lock, with the daily-reset check applied
// before anything else.
type Engine struct {
	store              SessionStore
	bus                *event.Bus
	clock              Clock
	logger             *log.Logger
	maxEnergy          int
	regenInterval      time.Duration
	breakMin           int
	breakMax           int
	restorePerInterval int
}

func NewEngine(opts Options) *Engine {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxEnergy <= 0 {
		opts.MaxEnergy = DefaultMaxEnergy
	}
	if opts.RegenInterval <= 0 {
		opts.RegenInterval = RegenerationInterval
	}
	if opts.BreakMinMinutes <= 0 {
		opts.BreakMinMinutes = MinBreakMinutes
	}
	if opts.BreakMaxMinutes <= 0 {
		opts.BreakMaxMinutes = MaxBreakMinutes
	}
	if opts.BreakRestorePerInterval <= 0 {
		opts.BreakRestorePerInterval = 1
	}
	return &Engine{
		store:              opts.Store,
		bus:                opts.Bus,
		clock:              opts.Clock,
		logger:             opts.Logger,
		maxEnergy:          opts.MaxEnergy,
		regenInterval:      opts.RegenInterval,
		breakMin:           opts.BreakMinMinutes,
		breakMax:           opts.BreakMaxMinutes,
		restorePerInterval: opts.BreakRestorePerInterval,
	}
}

// MinBreak reports the minimum break duration in minutes.
func (e *Engine) MinBreak() int { return e.breakMin }

func (e *Engine) publish(typ event.Type, data any) {
	if e.bus != nil {
		e.bus.Publish(typ, data)
	}
}

// do runs fn under the session's lock, after lazy initialization and the
// daily-reset check.
func (e *Engine) do(sessionID string, fn func(st *State) error) error {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	sess := e.store.Get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	st := &sess.State
	if st.MaxEnergy == 0 {
		*st = e.freshState(sessionID)
	}
	e.resetIfNewDayLocked(st)
	return fn(st)
}

func (e *Engine) freshState(sessionID string) State {
	now := e.clock.Now()
	return State{
		SessionID:            sessionID,
		CurrentEnergy:        e.maxEnergy,
		MaxEnergy:            e.maxEnergy,
		LastResetDate:        now.Format("2006-01-02"),
		LastRegenerationTime: now,
	}
}

// resetIfNewDayLocked forces a full refill once the wall-clock date advances
// past the last reset. It runs before every other read or mutation so all
// same-day observations are consistent.
func (e *Engine) resetIfNewDayLocked(st *State) {
	now := e.clock.Now()
	today := now.Format("2006-01-02")
	if st.LastResetDate == today {
		return
	}
	st.CurrentEnergy = st.MaxEnergy
	st.IsOnBreak = false
	st.BreakStartedAt = nil
	st.BreakEndTime = nil
	st.IsRegenerating = true
	st.RegenerationPausedAt = nil
	st.LastRegenerationTime = now
	st.LastResetDate = today
}

// Snapshot is the wire representation of one session's state.
type Snapshot struct {
	SessionID     string     `json:"session_id"`
	CurrentEnergy int        `json:"current_energy"`
	MaxEnergy     int        `json:"max_energy"`
	IsOnBreak     bool       `json:"is_on_break"`
	BreakEndTime  *time.Time `json:"break_end_time"`
	LastResetDate string     `json:"last_reset_date"`
}

func (e *Engine) Snapshot(sessionID string) Snapshot {
	var snap Snapshot
	_ = e.do(sessionID, func(st *State) error {
		snap = Snapshot{
			SessionID:     st.SessionID,
			CurrentEnergy: st.CurrentEnergy,
			MaxEnergy:     st.MaxEnergy,
			IsOnBreak:     st.IsOnBreak,
			BreakEndTime:  st.BreakEndTime,
			LastResetDate: st.LastResetDate,
		}
		return nil
	})
	return snap
}

type ConsumeResult struct {
	SessionID      string `json:"session_id"`
	CurrentEnergy  int    `json:"current_energy"`
	MaxEnergy      int    `json:"max_energy"`
	EnergyConsumed int    `json:"energy_consumed"`
	TaskID         string `json:"task_id,omitempty"`
}

// Consume spends energy for starting a task. When meta is present the amount
// is recomputed from effort and friction; an explicit amount is only used
// without metadata.
func (e *Engine) Consume(sessionID string, amount int, meta *TaskMetadata, taskID string) (ConsumeResult, error) {
	var res ConsumeResult
	err := e.do(sessionID, func(st *State) error {
		if st.IsOnBreak {
			return ErrOnBreak
		}

		required := amount
		if meta != nil {
			cost, err := stats.EnergyCost(meta.Effort, meta.Friction, st.MaxEnergy)
			if err != nil {
				return err
			}
			required = cost
		}
		if required <= 0 {
			return ErrInvalidAmount
		}
		if st.CurrentEnergy < required {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientEnergy, st.CurrentEnergy, required)
		}

		st.CurrentEnergy -= required

		// Enter the regenerating posture eagerly rather than waiting for
		// the next background tick.
		if st.CurrentEnergy < st.MaxEnergy && !st.IsRegenerating && st.RegenerationPausedAt == nil {
			st.IsRegenerating = true
			st.LastRegenerationTime = e.clock.Now()
		}

		res = ConsumeResult{
			SessionID:      st.SessionID,
			CurrentEnergy:  st.CurrentEnergy,
			MaxEnergy:      st.MaxEnergy,
			EnergyConsumed: required,
			TaskID:         taskID,
		}
		return nil
	})
	if err != nil {
		return ConsumeResult{}, err
	}
	e.publish(event.TypeEnergyConsumed, res)
	return res, nil
}

type BreakResult struct {
	SessionID       string    `json:"session_id"`
	BreakEndTime    time.Time `json:"break_end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	EnergyToRestore int       `json:"energy_to_restore"`
}

// StartBreak begins a recovery break. The duration is clamped to the
// configured minimum and maximum; passive regeneration is frozen for the
// break's duration.
func (e *Engine) StartBreak(sessionID string, durationMinutes int) (BreakResult, error) {
	var res BreakResult
	err := e.do(sessionID, func(st *State) error {
		if st.IsOnBreak {
			return ErrAlreadyOnBreak
		}
		if st.CurrentEnergy >= st.MaxEnergy {
			return ErrEnergyFull
		}

		if durationMinutes < e.breakMin {
			durationMinutes = e.breakMin
		}
		if durationMinutes > e.breakMax {
			durationMinutes = e.breakMax
		}

		restore := durationMinutes / int(BreakRestoreInterval.Minutes()) * e.restorePerInterval
		if restore < 1 {
			restore = 1
		}
		if deficit := st.MaxEnergy - st.CurrentEnergy; restore > deficit {
			restore = deficit
		}

		now := e.clock.Now()
		end := now.Add(time.Duration(durationMinutes) * time.Minute)
		st.IsOnBreak = true
		st.BreakStartedAt = &now
		st.BreakEndTime = &end

		if st.IsRegenerating && st.RegenerationPausedAt == nil {
			st.RegenerationPausedAt = &now
		}

		res = BreakResult{
			SessionID:       st.SessionID,
			BreakEndTime:    end,
			DurationMinutes: durationMinutes,
			EnergyToRestore: restore,
		}
		return nil
	})
	if err != nil {
		return BreakResult{}, err
	}
	e.publish(event.TypeBreakStarted, res)
	return res, nil
}

type RestoreResult struct {
	SessionID      string `json:"session_id"`
	CurrentEnergy  int    `json:"current_energy"`
	MaxEnergy      int    `json:"max_energy"`
	EnergyRestored int    `json:"energy_restored"`
}

// CompleteBreak ends the break now and restores energy for the time actually
// spent on break, at least one point, never past the maximum. If energy is
// still below max the regeneration countdown restarts fresh.
func (e *Engine) CompleteBreak(sessionID string) (RestoreResult, error) {
	var res RestoreResult
	err := e.do(sessionID, func(st *State) error {
		if !st.IsOnBreak {
			return ErrNotOnBreak
		}

		now := e.clock.Now()
		elapsed := time.Duration(0)
		if st.BreakStartedAt != nil {
			elapsed = now.Sub(*st.BreakStartedAt)
		}

		restored := int(elapsed/BreakRestoreInterval) * e.restorePerInterval
		if restored < 1 {
			restored = 1
		}
		if deficit := st.MaxEnergy - st.CurrentEnergy; restored > deficit {
			restored = deficit
		}

		st.CurrentEnergy += restored
		st.IsOnBreak = false
		st.BreakStartedAt = nil
		st.BreakEndTime = nil
		st.RegenerationPausedAt = nil

		if st.CurrentEnergy < st.MaxEnergy {
			st.IsRegenerating = true
			st.LastRegenerationTime = now
		} else {
			st.IsRegenerating = false
		}

		res = RestoreResult{
			SessionID:      st.SessionID,
			CurrentEnergy:  st.CurrentEnergy,
			MaxEnergy:      st.MaxEnergy,
			EnergyRestored: restored,
		}
		return nil
	})
	if err != nil {
		return RestoreResult{}, err
	}
	e.publish(event.TypeEnergyRestored, res)
	return res, nil
}

// RegenRead is the countdown view: zero and not regenerating whenever the
// session is on break, at max energy, or idle; frozen at the pause instant
// while paused.
type RegenRead struct {
	TimeRemaining        int       `json:"regeneration_time_remaining"`
	IsRegenerating       bool      `json:"is_regenerating"`
	LastRegenerationTime time.Time `json:"last_regeneration_time"`
	SessionID            string    `json:"session_id"`
}

func (e *Engine) regenReadLocked(st *State) RegenRead {
	read := RegenRead{
		LastRegenerationTime: st.LastRegenerationTime,
		SessionID:            st.SessionID,
	}
	if st.IsOnBreak || st.CurrentEnergy >= st.MaxEnergy || !st.IsRegenerating {
		return read
	}

	anchor := e.clock.Now()
	if st.RegenerationPausedAt != nil {
		anchor = *st.RegenerationPausedAt
	} else {
		read.IsRegenerating = true
	}

	remaining := e.regenInterval - anchor.Sub(st.LastRegenerationTime)
	if remaining < 0 {
		remaining = 0
	}
	read.TimeRemaining = int(remaining.Seconds())
	return read
}

func (e *Engine) RegenerationState(sessionID string) RegenRead {
	var read RegenRead
	_ = e.do(sessionID, func(st *State) error {
		read = e.regenReadLocked(st)
		return nil
	})
	return read
}

// PauseRegeneration freezes the regeneration countdown, typically while the
// user is actively working. No-op unless currently regenerating, unpaused,
// and not on break.
func (e *Engine) PauseRegeneration(sessionID string) RegenRead {
	var read RegenRead
	var changed bool
	_ = e.do(sessionID, func(st *State) error {
		if st.IsRegenerating && st.RegenerationPausedAt == nil && !st.IsOnBreak {
			now := e.clock.Now()
			st.RegenerationPausedAt = &now
			changed = true
		}
		read = e.regenReadLocked(st)
		return nil
	})
	if changed {
		e.publish(event.TypeRegenerationPaused, read)
	}
	return read
}

// ResumeRegeneration unfreezes a paused countdown, preserving the progress
// accrued before the pause: the anchor shifts forward by exactly the paused
// duration. No-op unless paused and not on break.
func (e *Engine) ResumeRegeneration(sessionID string) RegenRead {
	var read RegenRead
	var changed bool
	_ = e.do(sessionID, func(st *State) error {
		if st.RegenerationPausedAt != nil && !st.IsOnBreak {
			paused := e.clock.Now().Sub(*st.RegenerationPausedAt)
			st.LastRegenerationTime = st.LastRegenerationTime.Add(paused)
			st.RegenerationPausedAt = nil
			changed = true
		}
		read = e.regenReadLocked(st)
		return nil
	})
	if changed {
		e.publish(event.TypeRegenerationResumed, read)
	}
	return read
}

type regeneratedPayload struct {
	SessionID         string `json:"session_id"`
	CurrentEnergy     int    `json:"current_energy"`
	MaxEnergy         int    `json:"max_energy"`
	EnergyRegenerated int    `json:"energy_regenerated"`
}

// Tick advances passive regeneration for every known session. Each session's
// guard is held only for that session's own check, and the increment is
// idempotent per interval.
func (e *Engine) Tick() {
	now := e.clock.Now()
	for _, sess := range e.store.All() {
		sess.mu.Lock()
		st := &sess.State
		if st.MaxEnergy == 0 {
			sess.mu.Unlock()
			continue
		}
		e.resetIfNewDayLocked(st)

		eligible := st.IsRegenerating &&
			st.RegenerationPausedAt == nil &&
			!st.IsOnBreak &&
			st.CurrentEnergy < st.MaxEnergy

		var payload *regeneratedPayload
		if eligible && now.Sub(st.LastRegenerationTime) >= e.regenInterval {
			st.CurrentEnergy += RegenerationAmount
			if st.CurrentEnergy > st.MaxEnergy {
				st.CurrentEnergy = st.MaxEnergy
			}
			st.LastRegenerationTime = now
			if st.CurrentEnergy >= st.MaxEnergy {
				st.IsRegenerating = false
			}
			payload = &regeneratedPayload{
				SessionID:         st.SessionID,
				CurrentEnergy:     st.CurrentEnergy,
				MaxEnergy:         st.MaxEnergy,
				EnergyRegenerated: RegenerationAmount,
			}
		}
		sess.mu.Unlock()

		if payload != nil {
			e.publish(event.TypeEnergyRegenerated, *payload)
		}
	}
}
