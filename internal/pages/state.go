package pages

import (
	"sync"

	"codeberg.org/practicetestbulk/client/internal/errors"
)

// controller lifecycle
type State string

const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateError      State = "error"
)

// returned when an action is started while another one is in flight
var ErrBusy = errors.Validation("Please wait for the current request to finish")

// guards a controller's state; only one submission at a time
type machine struct {
	mu    sync.Mutex
	state State
}

func newMachine() *machine {
	return &machine{state: StateLoading}
}

func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *machine) set(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// moves to submitting; false if a submission is already running
func (m *machine) begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return false
	}

	m.state = StateSubmitting
	return true
}

// back to ready once a submission ends, whatever the outcome
func (m *machine) finish() {
	m.set(StateReady)
}
