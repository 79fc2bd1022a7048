package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
	"igtlink/wire"
)

const CommandTypeName = "COMMAND"

// Command carries a named, typically XML-encoded instruction with a client
// assigned ID so the response (a STRING or another COMMAND) can be matched
// to the request.
type Command struct {
	CommandID   uint32
	CommandName string // up to 20 bytes
	Encoding    uint16
	Text        string
}

func (c Command) TypeName() string { return CommandTypeName }

func (c Command) EncodeContent() ([]byte, error) {
	if uint64(len(c.Text)) > 0xffffffff {
		return nil, &ierr.FieldError{Field: "length", Reason: "command text too large"}
	}
	buf := make([]byte, 4+20+2+4+len(c.Text))
	off := 0
	binary.BigEndian.PutUint32(buf[off:off+4], c.CommandID)
	off += 4
	if err := wire.PutFixedString(buf[off:off+20], c.CommandName); err != nil {
		return nil, &ierr.FieldError{Field: "command_name", Reason: err.Error()}
	}
	off += 20
	binary.BigEndian.PutUint16(buf[off:off+2], c.Encoding)
	off += 2
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(len(c.Text)))
	off += 4
	copy(buf[off:], c.Text)
	return buf, nil
}

func DecodeCommand(body []byte) (Content, error) {
	const fixed = 4 + 20 + 2 + 4
	if len(body) < fixed {
		return nil, &ierr.FieldError{Field: "header", Reason: fmt.Sprintf("body must be at least %d bytes", fixed)}
	}
	off := 0
	commandID := binary.BigEndian.Uint32(body[off : off+4])
	off += 4
	commandName, err := wire.FixedString(body[off : off+20])
	if err != nil {
		return nil, &ierr.FieldError{Field: "command_name", Reason: err.Error()}
	}
	off += 20
	encoding := binary.BigEndian.Uint16(body[off : off+2])
	off += 2
	length := binary.BigEndian.Uint32(body[off : off+4])
	off += 4
	if len(body) != off+int(length) {
		return nil, &ierr.FieldError{Field: "length", Reason: fmt.Sprintf("declared length %d does not match body", length)}
	}
	return Command{
		CommandID:   commandID,
		CommandName: commandName,
		Encoding:    encoding,
		Text:        string(body[off:]),
	}, nil
}

func init() { register(CommandTypeName, DecodeCommand) }
