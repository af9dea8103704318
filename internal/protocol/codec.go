package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnmatchedName = errors.New("unmatched command name")

// PayloadError reports a frame whose name matched a registered variant but
// whose payload did not parse as that variant.
type PayloadError struct {
	Name string
	Err  error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("decode %q payload: %v", e.Name, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Encode renders a message as "<name> <json>". Zero-field messages render as
// the bare name.
func Encode(m Message) (string, error) {
	if _, ok := m.(unit); ok {
		return m.CommandName(), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode %q: %w", m.CommandName(), err)
	}
	return m.CommandName() + " " + string(b), nil
}

type entry struct {
	name   string
	shape  Shape
	decode func(rest string) (Message, error)
}

// Registry is an ordered list of name-keyed decoders. Decode tries entries in
// registration order and the first entry with a matching name wins.
type Registry struct {
	entries []entry
}

// Register appends a decoder for T to r. The wire name comes from T's zero
// value, so T must be a value type.
func Register[T Message](r *Registry, shape Shape) {
	var zero T
	r.entries = append(r.entries, entry{
		name:  zero.CommandName(),
		shape: shape,
		decode: func(rest string) (Message, error) {
			var v T
			if err := decodePayload(shape, rest, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	})
}

func decodePayload(shape Shape, rest string, v any) error {
	rest = strings.TrimSpace(rest)
	switch shape {
	case ShapeUnit:
		// payload, if any, carries nothing we model
		return nil
	case ShapeObject:
		if !strings.HasPrefix(rest, "{") {
			return errors.New("expected JSON object")
		}
	case ShapeValue:
		if rest == "" {
			return errors.New("missing payload")
		}
	}
	return json.Unmarshal([]byte(rest), v)
}

// Decode parses rest as the first registered variant named name. It returns
// ErrUnmatchedName when no entry carries that name, and a *PayloadError when
// the payload does not fit the variant.
func (r *Registry) Decode(name, rest string) (Message, error) {
	e, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnmatchedName, name)
	}
	m, err := e.decode(rest)
	if err != nil {
		return nil, &PayloadError{Name: name, Err: err}
	}
	return m, nil
}

// DecodeFrame splits line and decodes it. A bare name is only a frame when it
// names a zero-field variant; otherwise it is ErrMalformedFrame.
func (r *Registry) DecodeFrame(line string) (Message, error) {
	name, rest, err := Split(line)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(line, " ") {
		if e, ok := r.lookup(name); ok && e.shape != ShapeUnit {
			return nil, fmt.Errorf("%w: %q without payload", ErrMalformedFrame, name)
		}
	}
	return r.Decode(name, rest)
}

func (r *Registry) lookup(name string) (entry, bool) {
	for _, e := range r.entries {
		if e.name == name {
			return e, true
		}
	}
	return entry{}, false
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

// Events returns the registry of every server event the bot understands.
func Events() *Registry {
	r := &Registry{}
	Register[Warning](r, ShapeObject)
	Register[Error](r, ShapeObject)
	Register[Welcome](r, ShapeObject)
	Register[Name](r, ShapeObject)
	Register[Table](r, ShapeObject)
	Register[TableList](r, ShapeValue)
	Register[TableGone](r, ShapeObject)
	Register[TableStart](r, ShapeObject)
	Register[User](r, ShapeObject)
	Register[UserList](r, ShapeValue)
	Register[UserLeft](r, ShapeObject)
	Register[Chat](r, ShapeObject)
	Register[ChatTyping](r, ShapeUnit)
	Register[GameHistory](r, ShapeUnit)
	Register[Joined](r, ShapeObject)
	Register[Left](r, ShapeUnit)
	Register[Init](r, ShapeUnit)
	Register[Connected](r, ShapeUnit)
	return r
}
