package mcnet

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"unicode/utf8"
)

// ReadBool reads a single-byte boolean (0 or 1 on the wire; any non-zero
// byte is treated as true on read).
func ReadBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, ErrMalformedFrame
	}
	return b[0] != 0, nil
}

// WriteBool writes a single-byte boolean.
func WriteBool(w io.Writer, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

// ReadUint8 / WriteUint8 read and write a single unsigned byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrMalformedFrame
	}
	return b[0], nil
}

func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadInt8 / WriteInt8 are the signed forms of ReadUint8 / WriteUint8.
func ReadInt8(r io.Reader) (int8, error) {
	v, err := ReadUint8(r)
	return int8(v), err
}

func WriteInt8(w io.Writer, v int8) error {
	return WriteUint8(w, uint8(v))
}

// ReadUint16 / WriteUint16 are big-endian fixed-width fields.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrMalformedFrame
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadInt16 / WriteInt16 are the signed forms of ReadUint16 / WriteUint16.
func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}

func WriteInt16(w io.Writer, v int16) error {
	return WriteUint16(w, uint16(v))
}

// ReadInt32 / WriteInt32 are big-endian fixed-width fields (not varints).
func ReadInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrMalformedFrame
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func WriteInt32(w io.Writer, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

// ReadInt64 / WriteInt64 are big-endian fixed-width fields (not varlongs).
func ReadInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrMalformedFrame
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func WriteInt64(w io.Writer, v int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])
	return err
}

// ReadFloat32 / WriteFloat32 and ReadFloat64 / WriteFloat64 are big-endian
// IEEE 754 fields.
func ReadFloat32(r io.Reader) (float32, error) {
	bits, err := ReadInt32(r)
	if err != nil {
		return 0, err
	}
	return float32FromBits(uint32(bits)), nil
}

func WriteFloat32(w io.Writer, v float32) error {
	return WriteInt32(w, int32(float32ToBits(v)))
}

func ReadFloat64(r io.Reader) (float64, error) {
	bits, err := ReadInt64(r)
	if err != nil {
		return 0, err
	}
	return float64FromBits(uint64(bits)), nil
}

func WriteFloat64(w io.Writer, v float64) error {
	return WriteInt64(w, int64(float64ToBits(v)))
}

// ReadString reads a varint-length-prefixed UTF-8 string. maxLen bounds the
// byte length (not the rune count) and is enforced before the bytes are read.
func ReadString(r io.Reader, maxLen int) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > maxLen {
		return "", &TooLargeError{What: "string", Got: int(n), Limit: maxLen}
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrMalformedFrame
	}
	if !utf8.Valid(buf) {
		return "", ErrMalformedFrame
	}
	return string(buf), nil
}

// WriteString writes s as a varint-length-prefixed UTF-8 string, enforcing
// the same byte-length bound on the way out.
func WriteString(w io.Writer, s string, maxLen int) error {
	if len(s) > maxLen {
		return &TooLargeError{What: "string", Got: len(s), Limit: maxLen}
	}
	if err := WriteVarInt(w, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// ReadUUID reads a 16-byte big-endian UUID.
func ReadUUID(r io.Reader) ([16]byte, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return b, ErrMalformedFrame
	}
	return b, nil
}

// WriteUUID writes a 16-byte big-endian UUID.
func WriteUUID(w io.Writer, b [16]byte) error {
	_, err := w.Write(b[:])
	return err
}

// ReadByteArray reads a varint-count-prefixed byte array (prefixed-array<u8>).
// maxLen bounds the declared count so a hostile peer cannot force an
// unbounded allocation.
func ReadByteArray(r io.Reader, maxLen int) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > maxLen {
		return nil, &TooLargeError{What: "byte array", Got: int(n), Limit: maxLen}
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ErrMalformedFrame
	}
	return buf, nil
}

// WriteByteArray writes a varint-count-prefixed byte array.
func WriteByteArray(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadPrefixedArray reads a varint count followed by exactly that many
// elements decoded with readElem. The declared count is authoritative: the
// caller's bounded sub-reader (see frame.go) surfaces trailing or missing
// bytes as ErrMalformedFrame when it fails to exhaust cleanly.
func ReadPrefixedArray[T any](r io.Reader, maxLen int, readElem func(io.Reader) (T, error)) ([]T, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > maxLen {
		return nil, &TooLargeError{What: "array", Got: int(n), Limit: maxLen}
	}

	items := make([]T, n)
	for i := range items {
		v, err := readElem(r)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// WritePrefixedArray writes a varint count followed by each element encoded
// with writeElem.
func WritePrefixedArray[T any](w io.Writer, items []T, writeElem func(io.Writer, T) error) error {
	if err := WriteVarInt(w, int32(len(items))); err != nil {
		return err
	}
	for _, v := range items {
		if err := writeElem(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadPrefixedOptional reads a one-byte present flag, then (if set) one T.
func ReadPrefixedOptional[T any](r io.Reader, readElem func(io.Reader) (T, error)) (*T, error) {
	present, err := ReadBool(r)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := readElem(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// WritePrefixedOptional writes a one-byte present flag, then (if v != nil)
// the T value.
func WritePrefixedOptional[T any](w io.Writer, v *T, writeElem func(io.Writer, T) error) error {
	if err := WriteBool(w, v != nil); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return writeElem(w, *v)
}

// ReadJSONString reads a string, bounding its byte length to maxLen, then
// unmarshals it as JSON into a new T.
func ReadJSONString[T any](r io.Reader, maxLen int) (T, error) {
	var zero T
	s, err := ReadString(r, maxLen)
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return zero, ErrMalformedFrame
	}
	return v, nil
}

// WriteJSONString marshals v to JSON and writes it as a length-prefixed
// string, refusing if the encoded form exceeds maxLen bytes.
func WriteJSONString[T any](w io.Writer, v T, maxLen int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(b) > maxLen {
		return &TooLargeError{What: "json string", Got: len(b), Limit: maxLen}
	}
	return WriteString(w, string(b), maxLen)
}
