package track

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// KeyBinding maps one key chord to a named action. The action names are
	// the Action method names of the Manager ("PlayPause", "ZoomIn", ...).
	KeyBinding struct {
		Key                     string
		Shift, Ctrl, Alt, Super bool
		Action                  string
	}

	keyChord struct {
		key  string
		mods Modifiers
	}

	// KeyBindings is the resolved chord table the Manager consults when a
	// key event reaches the root.
	KeyBindings struct {
		chords map[keyChord]string
	}
)

//go:embed keybindings.yml
var defaultKeyBindings []byte

// DefaultKeyBindings returns the built-in binding table. The embedded table
// is part of the build, so failing to decode it is a bug.
func DefaultKeyBindings() KeyBindings {
	kb, err := decodeKeyBindings(defaultKeyBindings)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal default keybindings: %w", err))
	}
	return kb
}

// LoadKeyBindings reads a user binding file. The bindings add to and shadow
// the defaults.
func LoadKeyBindings(path string) (KeyBindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeyBindings{}, err
	}
	user, err := decodeKeyBindings(data)
	if err != nil {
		return KeyBindings{}, fmt.Errorf("failed to unmarshal keybindings %s: %w", path, err)
	}
	kb := DefaultKeyBindings()
	for chord, action := range user.chords {
		kb.chords[chord] = action
	}
	return kb, nil
}

func decodeKeyBindings(data []byte) (KeyBindings, error) {
	var bindings []KeyBinding
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&bindings); err != nil {
		return KeyBindings{}, err
	}
	kb := KeyBindings{chords: make(map[keyChord]string)}
	for _, b := range bindings {
		var mods Modifiers
		if b.Shift {
			mods |= ModShift
		}
		if b.Ctrl {
			mods |= ModCtrl
		}
		if b.Alt {
			mods |= ModAlt
		}
		if b.Super {
			mods |= ModSuper
		}
		kb.chords[keyChord{key: b.Key, mods: mods}] = b.Action
	}
	return kb, nil
}

// Lookup resolves a key event to an action name.
func (kb KeyBindings) Lookup(msg KeyMsg) (action string, ok bool) {
	action, ok = kb.chords[keyChord{key: msg.Key, mods: msg.Modifiers}]
	return action, ok
}

func (kb KeyBindings) Len() int { return len(kb.chords) }
