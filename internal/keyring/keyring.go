// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keyring provides a small in-memory key store for block signing.
// It stands in for the wallet, which is outside the scope of this module,
// and implements the mining.KeyStore interface.
package keyring

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	cryptorand "github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/pocx-project/pocxd/pocxutil"
)

// ErrNoKey describes an error where the keyring holds no private key for
// the requested account.
var ErrNoKey = errors.New("no key for account")

// Keyring holds signing keys indexed by their account identifier.  It is
// safe for concurrent use.
type Keyring struct {
	mtx  sync.RWMutex
	keys map[[20]byte]*secp256k1.PrivateKey
}

// New returns an empty keyring.
func New() *Keyring {
	return &Keyring{keys: make(map[[20]byte]*secp256k1.PrivateKey)}
}

// ImportKey adds the provided private key and returns the account
// identifier of its compressed public key.
func (k *Keyring) ImportKey(priv *secp256k1.PrivateKey) [20]byte {
	account := pocxutil.AccountID(priv.PubKey().SerializeCompressed())
	k.mtx.Lock()
	k.keys[account] = priv
	k.mtx.Unlock()
	return account
}

// ImportHex adds a private key from its 64-character hex serialization.
func (k *Keyring) ImportHex(hexKey string) ([20]byte, error) {
	serialized, err := hex.DecodeString(hexKey)
	if err != nil {
		return [20]byte{}, fmt.Errorf("malformed signing key: %w", err)
	}
	if len(serialized) != 32 {
		return [20]byte{}, errors.New("malformed signing key: not 32 bytes")
	}
	return k.ImportKey(secp256k1.PrivKeyFromBytes(serialized)), nil
}

// GenerateKey creates, imports and returns a fresh random key.
func (k *Keyring) GenerateKey() (*secp256k1.PrivateKey, [20]byte, error) {
	var seed [32]byte
	cryptorand.Read(seed[:])
	priv := secp256k1.PrivKeyFromBytes(seed[:])
	account := k.ImportKey(priv)
	return priv, account, nil
}

// Accounts returns the account identifiers of all held keys.
func (k *Keyring) Accounts() [][20]byte {
	k.mtx.RLock()
	defer k.mtx.RUnlock()

	accounts := make([][20]byte, 0, len(k.keys))
	for account := range k.keys {
		accounts = append(accounts, account)
	}
	return accounts
}

// HaveKey returns whether the keyring holds the key for the provided
// account.
func (k *Keyring) HaveKey(account [20]byte) bool {
	k.mtx.RLock()
	defer k.mtx.RUnlock()

	_, ok := k.keys[account]
	return ok
}

// PubKey returns the compressed public key for the provided account.
//
// This function is part of the mining.KeyStore interface.
func (k *Keyring) PubKey(account [20]byte) (*secp256k1.PublicKey, error) {
	k.mtx.RLock()
	defer k.mtx.RUnlock()

	priv, ok := k.keys[account]
	if !ok {
		return nil, fmt.Errorf("%w %x", ErrNoKey, account)
	}
	return priv.PubKey(), nil
}

// SignCompact produces a 65-byte recoverable compact signature over the
// provided digest with the key of the provided account.
//
// This function is part of the mining.KeyStore interface.
func (k *Keyring) SignCompact(digest *chainhash.Hash, account [20]byte) ([]byte, error) {
	k.mtx.RLock()
	priv, ok := k.keys[account]
	k.mtx.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %x", ErrNoKey, account)
	}
	return ecdsa.SignCompact(priv, digest[:], true), nil
}
