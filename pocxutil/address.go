// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pocxutil

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/bech32"
)

// ErrMalformedAddress describes an error where an address cannot be decoded
// as a witness v0 keyhash address for the expected network.
var ErrMalformedAddress = errors.New("malformed address")

// Address is a bech32-encoded pay-to-witness-pubkey-hash address.  The
// 20-byte hash is the account identifier used throughout the proof of
// capacity consensus code.
type Address struct {
	hrp  string
	hash [20]byte
}

// NewAddress returns a new address for the provided human-readable prefix
// and 20-byte pubkey hash.
func NewAddress(hrp string, hash [20]byte) *Address {
	return &Address{hrp: hrp, hash: hash}
}

// DecodeAddress decodes the string encoding of an address and verifies it is
// a witness v0 keyhash address for the network identified by hrp.
func DecodeAddress(addr, hrp string) (*Address, error) {
	decodedHRP, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if decodedHRP != hrp {
		return nil, fmt.Errorf("%w: prefix %q is not %q", ErrMalformedAddress,
			decodedHRP, hrp)
	}
	if len(data) < 1 || data[0] != 0 {
		return nil, fmt.Errorf("%w: unsupported witness version",
			ErrMalformedAddress)
	}
	converted, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if len(converted) != 20 {
		return nil, fmt.Errorf("%w: witness program is not 20 bytes",
			ErrMalformedAddress)
	}

	addr20 := &Address{hrp: hrp}
	copy(addr20.hash[:], converted)
	return addr20, nil
}

// Hash160 returns the 20-byte pubkey hash the address represents.
func (a *Address) Hash160() [20]byte {
	return a.hash
}

// PaymentScript returns the witness v0 keyhash script that pays to the
// address: OP_0 followed by a push of the 20-byte hash.
func (a *Address) PaymentScript() []byte {
	script := make([]byte, 22)
	script[0] = 0x00 // OP_0
	script[1] = 0x14 // OP_DATA_20
	copy(script[2:], a.hash[:])
	return script
}

// String returns the bech32 encoding of the address.  It returns an empty
// string in the impossible case the hash cannot be regrouped into 5-bit
// words.
func (a *Address) String() string {
	converted, err := bech32.ConvertBits(a.hash[:], 8, 5, true)
	if err != nil {
		return ""
	}
	encoded, err := bech32.Encode(a.hrp, append([]byte{0}, converted...))
	if err != nil {
		return ""
	}
	return encoded
}

// ExtractWitnessKeyHash returns the 20-byte pubkey hash committed to by a
// witness v0 keyhash payment script along with whether or not the script is
// of that form.
func ExtractWitnessKeyHash(script []byte) ([20]byte, bool) {
	var hash [20]byte
	if len(script) != 22 || script[0] != 0x00 || script[1] != 0x14 {
		return hash, false
	}
	copy(hash[:], script[2:])
	return hash, true
}

// AccountIDFromHex parses a 40-character hex string into a 20-byte account
// identifier.
func AccountIDFromHex(s string) ([20]byte, error) {
	var id [20]byte
	if len(s) != 40 {
		return id, fmt.Errorf("%w: account id must be 40 hex characters",
			ErrMalformedAddress)
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	copy(id[:], decoded)
	return id, nil
}
