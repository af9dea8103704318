package protocol

import (
	"errors"
	"strings"
)

var ErrMalformedFrame = errors.New("malformed frame")

// Split cuts a frame at its first space into the command name and the raw
// payload. A frame holding only a name is valid and yields an empty payload,
// so zero-field commands may be sent without a trailing separator.
func Split(line string) (name, rest string, err error) {
	name, rest, _ = strings.Cut(line, " ")
	if name == "" {
		return "", "", ErrMalformedFrame
	}
	return name, rest, nil
}
