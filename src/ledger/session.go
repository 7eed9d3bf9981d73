package ledger

import (
	"context"
	"sort"

	"github.com/username/tradebook/backend/src/models"
)

// SessionState is the edit/selection mode of the grid session.
type SessionState int

const (
	// StateIdle: no draft row, zero or more rows selected.
	StateIdle SessionState = iota
	// StateComposing: exactly one draft row present; selection is pinned
	// to the draft and persisted rows are not selectable.
	StateComposing
)

// EditExitReason says why an inline edit ended. Only an explicit cancel
// or an escape-key abort discards the draft; any other exit reason (for
// example focus moving away) is ignored while composing.
type EditExitReason int

const (
	ExitExplicitCancel EditExitReason = iota
	ExitEscape
	ExitFocusLost
	ExitOther
)

// Session tracks the transient new-row draft and the row selection, and
// mediates between edit gestures and the controller. It is single
// threaded by construction: every call happens on the UI event loop.
type Session struct {
	ctrl     *Controller
	state    SessionState
	selected map[int64]bool
	draft    map[string]any
}

func NewSession(ctrl *Controller) *Session {
	s := &Session{
		ctrl:     ctrl,
		state:    StateIdle,
		selected: make(map[int64]bool),
	}
	// An import discards an active draft before touching the store.
	ctrl.SetOnImportStart(s.abortForImport)
	return s
}

func (s *Session) State() SessionState { return s.state }

// BeginAdd creates the sentinel draft row and pins selection to it. A
// second BeginAdd while composing is ignored; only one draft ever
// exists.
func (s *Session) BeginAdd() {
	if s.state == StateComposing {
		return
	}
	s.state = StateComposing
	s.draft = map[string]any{"id": models.DraftID}
	s.selected = map[int64]bool{models.DraftID: true}
}

// SetDraftField records an inline edit on the draft row. Ignored when no
// draft is being composed.
func (s *Session) SetDraftField(name string, value any) {
	if s.state != StateComposing {
		return
	}
	s.draft[name] = value
}

// Draft returns the draft fields, or nil when idle.
func (s *Session) Draft() map[string]any {
	if s.state != StateComposing {
		return nil
	}
	return s.draft
}

// Commit hands the draft to the controller. The session returns to Idle
// with an empty selection regardless of the outcome; the controller's own
// notice reports a failed add.
func (s *Session) Commit(ctx context.Context) error {
	if s.state != StateComposing {
		return nil
	}
	draft := s.draft
	s.reset()
	return s.ctrl.AddOne(ctx, draft)
}

// Cancel discards the draft without contacting the store, but only for
// an explicit cancel or an escape abort. Other edit-exit reasons leave
// the composing state untouched.
func (s *Session) Cancel(reason EditExitReason) {
	if s.state != StateComposing {
		return
	}
	if reason != ExitExplicitCancel && reason != ExitEscape {
		return
	}
	s.reset()
}

// Select replaces the selection set. Swallowed while composing: the
// pinned draft selection is preserved.
func (s *Session) Select(ids []int64) {
	if s.state == StateComposing {
		return
	}
	s.selected = make(map[int64]bool, len(ids))
	for _, id := range ids {
		s.selected[id] = true
	}
}

// Selected returns the selected ids in ascending order.
func (s *Session) Selected() []int64 {
	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Selectable reports whether the row with the given id may be selected.
// While composing only the sentinel draft row is.
func (s *Session) Selectable(id int64) bool {
	if s.state == StateComposing {
		return id == models.DraftID
	}
	return true
}

// DeleteSelected removes the selected rows through the controller and
// clears the selection. Inert while composing.
func (s *Session) DeleteSelected(ctx context.Context) error {
	if s.state == StateComposing {
		return nil
	}
	ids := s.Selected()
	err := s.ctrl.DeleteMany(ctx, ids)
	s.selected = make(map[int64]bool)
	return err
}

// Rows returns the display rows: the loaded collection plus, while
// composing, the single draft row at the end.
func (s *Session) Rows() ([]Row, error) {
	records, err := s.ctrl.Records()
	if err != nil {
		return nil, err
	}
	rows := Derive(records)
	if s.state == StateComposing {
		rows = append(rows, Row{TradeRecord: models.TradeRecord{ID: models.DraftID}})
	}
	return rows, nil
}

func (s *Session) abortForImport() {
	if s.state == StateComposing {
		s.reset()
	}
}

func (s *Session) reset() {
	s.state = StateIdle
	s.draft = nil
	s.selected = make(map[int64]bool)
}
