package types

type (
	// OptionalInteger is an int that may be absent. The zero value is the
	// empty one.
	OptionalInteger struct {
		value  int
		exists bool
	}
)

func NewOptionalInteger(value int) OptionalInteger {
	return OptionalInteger{value: value, exists: true}
}

func NewEmptyOptionalInteger() OptionalInteger {
	return OptionalInteger{}
}

func (i OptionalInteger) Unpack() (int, bool) {
	return i.value, i.exists
}

func (i OptionalInteger) Value() int {
	if !i.exists {
		panic("access value of empty OptionalInteger")
	}
	return i.value
}

func (i OptionalInteger) Empty() bool {
	return !i.exists
}

func (i OptionalInteger) Equals(value int) bool {
	return i.exists && i.value == value
}
