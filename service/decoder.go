package service

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var errTruncatedText = errors.New("stream ended inside a multi-byte character")

// textDecoder turns raw chunks into UTF-8 text. A character split across two
// chunks is carried over and emitted once complete. Invalid bytes are errors.
type textDecoder struct {
	carry []byte
}

// Decode returns the text completed by chunk. It may be empty when the chunk
// holds only the beginning of a character.
func (d *textDecoder) Decode(chunk []byte) (string, error) {
	if len(chunk) == 0 {
		return "", nil
	}
	buf := chunk
	if len(d.carry) > 0 {
		buf = append(d.carry, chunk...)
		d.carry = nil
	}

	// Hold back an incomplete trailing sequence, at most utf8.UTFMax-1 bytes.
	cut := len(buf)
	for i := len(buf) - 1; i >= 0 && i >= len(buf)-utf8.UTFMax; i-- {
		if utf8.RuneStart(buf[i]) {
			if !utf8.FullRune(buf[i:]) {
				cut = i
			}
			break
		}
	}

	complete := buf[:cut]
	if !utf8.Valid(complete) {
		return "", fmt.Errorf("invalid UTF-8 in reply chunk at byte %d", invalidOffset(complete))
	}
	if cut < len(buf) {
		d.carry = append([]byte(nil), buf[cut:]...)
	}
	return string(complete), nil
}

// Flush reports an error if the stream ended mid-character.
func (d *textDecoder) Flush() error {
	if len(d.carry) > 0 {
		d.carry = nil
		return errTruncatedText
	}
	return nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
