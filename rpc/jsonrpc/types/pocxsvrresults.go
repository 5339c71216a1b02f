// Copyright (c) 2015-2020 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

// GetMiningInfoResult models the data from the get_mining_info command.
type GetMiningInfoResult struct {
	GenerationSignature string `json:"generation_signature"`
	BaseTarget          uint64 `json:"base_target"`
	Height              int64  `json:"height"`
	BlockHash           string `json:"block_hash"`
	TargetQuality       uint64 `json:"target_quality"`
	MinCompression      uint32 `json:"min_compression"`
	TargetCompression   uint32 `json:"target_compression"`
}

// SubmitNonceResult models the data from the submit_nonce command.
// Quality is the difficulty-adjusted deadline in seconds (raw quality over
// base target) and PocTime the time-bent deadline actually waited out.
type SubmitNonceResult struct {
	Accepted bool   `json:"accepted"`
	Quality  uint64 `json:"quality"`
	PocTime  uint64 `json:"poc_time"`
	Error    string `json:"error,omitempty"`
}

// GetAssignmentResult models the data from the get_assignment command.
type GetAssignmentResult struct {
	PlotAddress               string `json:"plot_address"`
	Height                    int64  `json:"height"`
	HasAssignment             bool   `json:"has_assignment"`
	State                     string `json:"state"`
	ForgingAddress            string `json:"forging_address"`
	AssignmentTxID            string `json:"assignment_txid,omitempty"`
	AssignmentHeight          int64  `json:"assignment_height,omitempty"`
	ActivationHeight          int64  `json:"activation_height,omitempty"`
	Revoked                   bool   `json:"revoked"`
	RevocationTxID            string `json:"revocation_txid,omitempty"`
	RevocationHeight          int64  `json:"revocation_height,omitempty"`
	RevocationEffectiveHeight int64  `json:"revocation_effective_height,omitempty"`
}

// CreateAssignmentResult models the data from the create_assignment and
// revoke_assignment commands.
type CreateAssignmentResult struct {
	TxID string `json:"txid"`
	Fee  int64  `json:"fee"`
	Hex  string `json:"hex"`
}
