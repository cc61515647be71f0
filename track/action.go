package track

// Enabler is implemented by anything that can report whether it is currently
// allowed, so a control surface can e.g. gray out the button for it.
type Enabler interface {
	Enabled() bool
}

type (
	// Action is one user command, performed by calling Do(). It is what a
	// button press or key binding executes. The underlying Doer may
	// optionally implement Enabler to gate the action; without Enabler the
	// action is always allowed.
	Action struct {
		doer Doer
	}

	// Doer performs one action.
	Doer interface {
		Do()
	}
)

func MakeAction(doer Doer) Action { return Action{doer: doer} }

func (a Action) Do() {
	e, ok := a.doer.(Enabler)
	if ok && !e.Enabled() {
		return
	}
	if a.doer != nil {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false // no doer, not allowed
	}
	e, ok := a.doer.(Enabler)
	if !ok {
		return true // not an enabler, always allowed
	}
	return e.Enabled()
}

type (
	// Bool is a toggleable value exposed to the control surface, e.g. the
	// play/pause switch.
	Bool struct {
		value BoolValue
	}

	BoolValue interface {
		Value() bool
		SetValue(bool)
	}
)

func MakeBool(value BoolValue) Bool { return Bool{value: value} }

func (v Bool) Toggle() { v.SetValue(!v.Value()) }

func (v Bool) SetValue(value bool) (changed bool) {
	if !v.Enabled() || v.Value() == value {
		return false
	}
	v.value.SetValue(value)
	return true
}

func (v Bool) Value() bool {
	if v.value == nil {
		return false
	}
	return v.value.Value()
}

func (v Bool) Enabled() bool {
	if v.value == nil {
		return false
	}
	if e, ok := v.value.(Enabler); ok {
		return e.Enabled()
	}
	return true
}
