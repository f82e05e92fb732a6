// Package flow drives the load/answer/advance cycle of a training session.
package flow

import (
	"errors"

	"github.com/google/uuid"

	"github.com/artkel/gcp-guru/internal/api"
	"github.com/artkel/gcp-guru/internal/model"
	"github.com/artkel/gcp-guru/internal/session"
)

// State is the position of the question slot in the training cycle.
type State int

// Slot states.
const (
	StateIdle State = iota
	StateLoading
	StateDisplayed
	StateSubmitting
	StateAnswered
	StateExhausted
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateDisplayed:
		return "displayed"
	case StateSubmitting:
		return "submitting"
	case StateAnswered:
		return "answered"
	case StateExhausted:
		return "exhausted"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Token ties an in-flight request to the session and request slot that
// issued it. A Finish call with a token from a superseded session or a
// superseded request is discarded without touching state.
type Token struct {
	Session uuid.UUID
	Seq     int
}

// Controller is the only component that performs question/answer network
// calls. It hands out tokens from Begin* methods, the caller runs the
// request, and the matching Finish* method applies the outcome.
type Controller struct {
	store *session.Store

	state   State
	seq     int
	result  *model.AnswerResult
	lastErr error

	explanationPending bool
}

// New constructs a controller bound to a session store.
func New(store *session.Store) *Controller {
	return &Controller{store: store}
}

// State returns the current slot state.
func (c *Controller) State() State {
	return c.state
}

// Result returns the graded result for the answered question, or nil.
func (c *Controller) Result() *model.AnswerResult {
	return c.result
}

// Err returns the last surfaced failure, or nil.
func (c *Controller) Err() error {
	return c.lastErr
}

// Reset returns the slot to Idle, dropping any answered/error state. Any
// response still in flight becomes stale by construction.
func (c *Controller) Reset() {
	c.state = StateIdle
	c.seq++
	c.result = nil
	c.lastErr = nil
	c.explanationPending = false
}

// RestoreDisplayed re-enters Displayed for a question rehydrated from
// persisted state. Returns false when the store holds no question.
func (c *Controller) RestoreDisplayed() bool {
	if c.store.Question() == nil {
		return false
	}
	c.seq++
	c.state = StateDisplayed
	c.result = nil
	c.lastErr = nil
	c.explanationPending = false
	return true
}

func (c *Controller) token() Token {
	return Token{Session: c.store.SessionID(), Seq: c.seq}
}

func (c *Controller) stale(tok Token) bool {
	return tok.Session != c.store.SessionID() || tok.Seq != c.seq
}

// BeginLoad transitions to Loading and hands out a request token. It
// refuses while a load or submit is pending, so at most one request per
// slot is ever in flight.
func (c *Controller) BeginLoad() (Token, bool) {
	switch c.state {
	case StateIdle, StateAnswered, StateError:
	default:
		return Token{}, false
	}
	c.seq++
	c.state = StateLoading
	c.lastErr = nil
	c.result = nil
	c.explanationPending = false
	return c.token(), true
}

// FinishLoad applies the outcome of a load request. Exhaustion is a flow
// signal, not an error: it parks the slot in Exhausted and leaves the
// session stats untouched.
func (c *Controller) FinishLoad(tok Token, q *model.Question, err error) {
	if c.stale(tok) || c.state != StateLoading {
		return
	}
	if err != nil {
		if errors.Is(err, api.ErrExhausted) {
			c.state = StateExhausted
			c.lastErr = err
			return
		}
		c.state = StateError
		c.lastErr = err
		return
	}
	c.store.SetQuestion(q)
	c.state = StateDisplayed
}

// ToggleAnswer updates the selection for the displayed question. No
// network call is involved and the slot state does not change.
func (c *Controller) ToggleAnswer(id string) {
	if c.state != StateDisplayed {
		return
	}
	c.store.Selection().Toggle(id)
}

// CanSubmit reports whether a submit would be accepted right now. The UI
// gates its affordance on this instead of treating empty submits as errors.
func (c *Controller) CanSubmit() bool {
	return c.state == StateDisplayed && c.store.Selection().Size() > 0
}

// BeginSubmit transitions to Submitting and returns the token plus the
// ordered selected ids to send.
func (c *Controller) BeginSubmit() (Token, []string, bool) {
	if !c.CanSubmit() {
		return Token{}, nil, false
	}
	c.seq++
	c.state = StateSubmitting
	c.lastErr = nil
	return c.token(), c.store.Selection().IDs(), true
}

// FinishSubmit applies the graded result. Success records the answer in
// the session store exactly once and installs the server-confirmed copy
// of the question; failure returns to Displayed with the selection
// preserved so the user can resubmit.
func (c *Controller) FinishSubmit(tok Token, res *model.AnswerResult, err error) {
	if c.stale(tok) || c.state != StateSubmitting {
		return
	}
	if err != nil {
		c.state = StateDisplayed
		c.lastErr = err
		return
	}
	c.store.RecordAnswer(res.IsCorrect)
	q := res.Question
	c.store.ReplaceQuestion(&q)
	c.result = res
	c.state = StateAnswered
}

// BeginExplanation requests explanation text for the answered question.
// Re-fetching is allowed; the slot state does not change.
func (c *Controller) BeginExplanation() (Token, bool) {
	if c.state != StateAnswered || c.explanationPending {
		return Token{}, false
	}
	c.seq++
	c.explanationPending = true
	return c.token(), true
}

// FinishExplanation attaches the fetched explanation to the result.
func (c *Controller) FinishExplanation(tok Token, text string, err error) {
	if c.stale(tok) || c.state != StateAnswered {
		return
	}
	c.explanationPending = false
	if err != nil {
		c.lastErr = err
		return
	}
	if c.result != nil {
		c.result.Explanation = text
	}
	if q := c.store.Question(); q != nil {
		q.Explanation = text
	}
}
