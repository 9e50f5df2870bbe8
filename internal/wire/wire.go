// Package wire implements the length-prefixed binary codec used by the
// chat protocol: fixed-width integers, nullable wrappers, and ordered
// collections/maps read and written against an io.Reader/io.Writer pair.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrWireFormat is returned whenever a decode fails because the stream
// ended early, a declared length was negative, or a string was not
// valid UTF-8. It is never returned by encoders.
var ErrWireFormat = errors.New("wire: malformed input")

func wireFormatf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrWireFormat, fmt.Sprintf(format, args...))
}

// WriteInt writes a 4-byte big-endian signed integer.
func WriteInt(w io.Writer, v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadInt reads a 4-byte big-endian signed integer.
func ReadInt(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wireFormatErr(err, "reading INTEGER")
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

// WriteLong writes an 8-byte big-endian signed integer.
func WriteLong(w io.Writer, v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadLong reads an 8-byte big-endian signed integer.
func ReadLong(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wireFormatErr(err, "reading LONG")
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

// WriteBool writes a single 0x00/0x01 byte.
func WriteBool(w io.Writer, v bool) error {
	b := byte(0x00)
	if v {
		b = 0x01
	}
	_, err := w.Write([]byte{b})
	return err
}

// ReadBool reads a single 0x00/0x01 byte.
func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, wireFormatErr(err, "reading BOOLEAN")
	}
	return buf[0] != 0x00, nil
}

// WriteBytes writes an INTEGER length followed by the raw bytes.
func WriteBytes(w io.Writer, b []byte) error {
	if err := WriteInt(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadBytes reads an INTEGER length followed by that many raw bytes.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, err := ReadInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, wireFormatf("negative BYTES length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wireFormatErr(err, "reading BYTES body")
	}
	return buf, nil
}

// WriteString writes an INTEGER length followed by UTF-8 bytes.
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a STRING and validates it is well-formed UTF-8.
func ReadString(r io.Reader) (string, error) {
	b, err := ReadBytes(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", wireFormatf("invalid UTF-8 in STRING")
	}
	return string(b), nil
}

func wireFormatErr(cause error, context string) error {
	if errors.Is(cause, io.EOF) || errors.Is(cause, io.ErrUnexpectedEOF) {
		return wireFormatf("%s: unexpected end of stream", context)
	}
	return fmt.Errorf("wire: %s: %w", context, cause)
}
