package track

type (
	// Alert is one message for the user: an analysis result, a warning about
	// a missing selection, an error from the renderer. The Manager collects
	// alerts instead of logging, so the enclosing application decides how to
	// show them.
	Alert struct {
		Message  string
		Priority AlertPriority
	}

	AlertPriority int

	Alerts struct {
		list []Alert
	}
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

func (a *Alerts) Add(message string, priority AlertPriority) {
	a.list = append(a.list, Alert{Message: message, Priority: priority})
}

// Pop returns and removes the oldest alert.
func (a *Alerts) Pop() (Alert, bool) {
	if len(a.list) == 0 {
		return Alert{}, false
	}
	alert := a.list[0]
	a.list = a.list[1:]
	return alert, true
}

func (a *Alerts) Len() int { return len(a.list) }
