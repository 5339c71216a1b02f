// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxVarBytesLen is the maximum length a variable length byte slice is
// allowed to be.  It keeps a malformed stream from causing absurd
// allocations.
const maxVarBytesLen = 1 << 22 // 4 MiB

// littleEndian is a convenience variable since binary.LittleEndian is quite
// long.
var littleEndian = binary.LittleEndian

func writeUint8(w io.Writer, val uint8) error {
	_, err := w.Write([]byte{val})
	return err
}

func writeUint32(w io.Writer, val uint32) error {
	var buf [4]byte
	littleEndian.PutUint32(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, val uint64) error {
	var buf [8]byte
	littleEndian.PutUint64(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return littleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return littleEndian.Uint64(buf[:]), nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val < 0xfd:
		return writeUint8(w, uint8(val))

	case val <= 1<<16-1:
		if err := writeUint8(w, 0xfd); err != nil {
			return err
		}
		var buf [2]byte
		littleEndian.PutUint16(buf[:], uint16(val))
		_, err := w.Write(buf[:])
		return err

	case val <= 1<<32-1:
		if err := writeUint8(w, 0xfe); err != nil {
			return err
		}
		return writeUint32(w, uint32(val))

	default:
		if err := writeUint8(w, 0xff); err != nil {
			return err
		}
		return writeUint64(w, val)
	}
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64.
func ReadVarInt(r io.Reader) (uint64, error) {
	discriminant, err := readUint8(r)
	if err != nil {
		return 0, err
	}

	switch discriminant {
	case 0xff:
		return readUint64(r)

	case 0xfe:
		val, err := readUint32(r)
		return uint64(val), err

	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return uint64(littleEndian.Uint16(buf[:])), nil

	default:
		return uint64(discriminant), nil
	}
}

// WriteVarBytes serializes a variable length byte slice to w as a varint
// followed by the bytes themselves.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarBytes reads a variable length byte slice from r.
func ReadVarBytes(r io.Reader, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxVarBytesLen {
		str := fmt.Sprintf("%s is larger [%d] than the maximum allowed "+
			"size [%d]", fieldName, count, maxVarBytesLen)
		return nil, messageError("ReadVarBytes", ErrVarBytesTooLong, str)
	}
	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
