package protocol

// Message is anything with a wire command name. Outbound commands and inbound
// events share this interface; a few types travel in both directions.
type Message interface {
	CommandName() string
}

// Command is an outbound message the bot sends to the server.
type Command interface {
	Message
	isCommand()
}

// unit marks zero-field messages. They are encoded as the bare name.
type unit interface {
	unit()
}

type Shape int

const (
	ShapeUnit Shape = iota
	ShapeValue
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapeUnit:
		return "unit"
	case ShapeValue:
		return "value"
	case ShapeObject:
		return "object"
	default:
		return "unknown"
	}
}
