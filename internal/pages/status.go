package pages

import "time"

// status line severity
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// non-error statuses are hidden after this long
const StatusDismissAfter = 5 * time.Second

// Status is one message for the screen's status line.
type Status struct {
	Message  string
	Severity Severity
}

// errors stay until the next action; everything else goes away on its own
func (s Status) AutoDismiss() bool {
	return s.Severity != SeverityError
}

func Info(msg string) Status    { return Status{Message: msg, Severity: SeverityInfo} }
func Success(msg string) Status { return Status{Message: msg, Severity: SeveritySuccess} }
func Warning(msg string) Status { return Status{Message: msg, Severity: SeverityWarning} }
func Failure(msg string) Status { return Status{Message: msg, Severity: SeverityError} }

// StatusView is the part every screen binding implements.
type StatusView interface {
	ShowStatus(s Status)
	ClearStatus()
}

// BusyView is implemented by screens with a submit control.
type BusyView interface {
	// busy disables the control and shows label; !busy restores it
	SetBusy(busy bool, label string)
}
