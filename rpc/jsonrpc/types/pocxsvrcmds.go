// Copyright (c) 2014 The btcsuite developers
// Copyright (c) 2015-2020 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// a pocx chain server.

package types

import (
	"github.com/decred/dcrd/dcrjson/v4"
)

// Method describes the exact type used when registering methods with
// dcrjson.
type Method string

// GetMiningInfoCmd defines the get_mining_info JSON-RPC command.
type GetMiningInfoCmd struct{}

// NewGetMiningInfoCmd returns a new instance which can be used to issue a
// get_mining_info JSON-RPC command.
func NewGetMiningInfoCmd() *GetMiningInfoCmd {
	return &GetMiningInfoCmd{}
}

// SubmitNonceCmd defines the submit_nonce JSON-RPC command.
type SubmitNonceCmd struct {
	Height              int64
	GenerationSignature string
	AccountID           string
	Seed                string
	Nonce               uint64
	Compression         uint32
	Quality             *uint64
}

// NewSubmitNonceCmd returns a new instance which can be used to issue a
// submit_nonce JSON-RPC command.
func NewSubmitNonceCmd(height int64, genSig, accountID, seed string,
	nonce uint64, compression uint32, quality *uint64) *SubmitNonceCmd {

	return &SubmitNonceCmd{
		Height:              height,
		GenerationSignature: genSig,
		AccountID:           accountID,
		Seed:                seed,
		Nonce:               nonce,
		Compression:         compression,
		Quality:             quality,
	}
}

// GetAssignmentCmd defines the get_assignment JSON-RPC command.
type GetAssignmentCmd struct {
	PlotAddress string
	Height      *int64
}

// NewGetAssignmentCmd returns a new instance which can be used to issue a
// get_assignment JSON-RPC command.
func NewGetAssignmentCmd(plotAddress string, height *int64) *GetAssignmentCmd {
	return &GetAssignmentCmd{
		PlotAddress: plotAddress,
		Height:      height,
	}
}

// CreateAssignmentCmd defines the create_assignment JSON-RPC command.
type CreateAssignmentCmd struct {
	PlotAddress    string
	ForgingAddress string
	FeeRate        *int64 `jsonrpcdefault:"10000"`
}

// NewCreateAssignmentCmd returns a new instance which can be used to issue
// a create_assignment JSON-RPC command.
func NewCreateAssignmentCmd(plotAddress, forgingAddress string,
	feeRate *int64) *CreateAssignmentCmd {

	return &CreateAssignmentCmd{
		PlotAddress:    plotAddress,
		ForgingAddress: forgingAddress,
		FeeRate:        feeRate,
	}
}

// RevokeAssignmentCmd defines the revoke_assignment JSON-RPC command.
type RevokeAssignmentCmd struct {
	PlotAddress string
	FeeRate     *int64 `jsonrpcdefault:"10000"`
}

// NewRevokeAssignmentCmd returns a new instance which can be used to issue
// a revoke_assignment JSON-RPC command.
func NewRevokeAssignmentCmd(plotAddress string, feeRate *int64) *RevokeAssignmentCmd {
	return &RevokeAssignmentCmd{
		PlotAddress: plotAddress,
		FeeRate:     feeRate,
	}
}

func init() {
	// No special flags for commands in this file.
	flags := dcrjson.UsageFlag(0)

	dcrjson.MustRegister(Method("get_mining_info"), (*GetMiningInfoCmd)(nil), flags)
	dcrjson.MustRegister(Method("submit_nonce"), (*SubmitNonceCmd)(nil), flags)
	dcrjson.MustRegister(Method("get_assignment"), (*GetAssignmentCmd)(nil), flags)
	dcrjson.MustRegister(Method("create_assignment"), (*CreateAssignmentCmd)(nil), flags)
	dcrjson.MustRegister(Method("revoke_assignment"), (*RevokeAssignmentCmd)(nil), flags)
}
