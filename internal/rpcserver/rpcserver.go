// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpcserver implements the JSON-RPC server that exposes the mining
// and forging assignment surface of the node.
package rpcserver

import (
	"context"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/decred/dcrd/certgen"
	"github.com/decred/dcrd/dcrjson/v4"

	"github.com/pocx-project/pocxd/chaincfg"
	"github.com/pocx-project/pocxd/internal/blockchain"
	"github.com/pocx-project/pocxd/internal/keyring"
	"github.com/pocx-project/pocxd/mining"
	"github.com/pocx-project/pocxd/rpc/jsonrpc/types"
)

const (
	// rpcAuthTimeoutSeconds is the number of seconds a connection to the
	// RPC server is allowed to stay open without authenticating before it
	// is closed.
	rpcAuthTimeoutSeconds = 10

	// maxRequestSize bounds the size of a single accepted request body.
	maxRequestSize = 1 << 20 // 1 MiB
)

// Config is a descriptor containing the RPC server configuration.
type Config struct {
	// Listeners defines the interfaces and ports to listen for RPC
	// requests on.
	Listeners []string

	// User and Pass are the credentials basic access authentication is
	// checked against.
	User string
	Pass string

	// DisableTLS serves plain HTTP when set.  The certificate pair is
	// generated on first use otherwise.
	DisableTLS bool
	CertFile   string
	KeyFile    string

	// ChainParams identifies the network the server answers for.
	ChainParams *chaincfg.Params

	// Chain is the chain manager queried and mutated by the handlers.
	Chain *blockchain.Chain

	// Scheduler accepts validated nonce submissions.
	Scheduler *mining.Scheduler

	// KeyRing answers key possession queries and signs assignment
	// transactions.
	KeyRing *keyring.Keyring
}

// Server provides a concurrent safe RPC server to a pocx node.
type Server struct {
	cfg      Config
	authsha  [sha256.Size]byte
	handlers map[types.Method]commandHandler
}

// commandHandler describes a callback function used to handle a specific
// command.
type commandHandler func(context.Context, *Server, interface{}) (interface{}, error)

// New returns a new instance of the Server struct.
func New(cfg *Config) *Server {
	s := Server{cfg: *cfg}
	login := cfg.User + ":" + cfg.Pass
	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
	s.authsha = sha256.Sum256([]byte(auth))
	s.handlers = map[types.Method]commandHandler{
		"get_mining_info":   handleGetMiningInfo,
		"submit_nonce":      handleSubmitNonce,
		"get_assignment":    handleGetAssignment,
		"create_assignment": handleCreateAssignment,
		"revoke_assignment": handleRevokeAssignment,
	}
	return &s
}

// rpcInternalError is a convenience function to convert an internal error to
// an RPC error with the appropriate code set.  It also logs the error since
// internal errors really should not occur.
func rpcInternalError(errStr, context string) *dcrjson.RPCError {
	logStr := errStr
	if context != "" {
		logStr = context + ": " + errStr
	}
	log.Error(logStr)
	return dcrjson.NewRPCError(dcrjson.ErrRPCInternal.Code, errStr)
}

// rpcInvalidError is a convenience function to convert an invalid parameter
// error to an RPC error with the appropriate code set.
func rpcInvalidError(fmtStr string, args ...interface{}) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCInvalidParameter,
		fmt.Sprintf(fmtStr, args...))
}

// rpcMiscError is a convenience function to convert a rule error to an RPC
// error with the appropriate code set.
func rpcMiscError(fmtStr string, args ...interface{}) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCMisc,
		fmt.Sprintf(fmtStr, args...))
}

// rpcAddressKeyError is a convenience function to convert an address/key
// error to an RPC error with the appropriate code set.
func rpcAddressKeyError(fmtStr string, args ...interface{}) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCInvalidAddressOrKey,
		fmt.Sprintf(fmtStr, args...))
}

// checkAuth checks the HTTP Basic authentication supplied by a client
// against the configured credentials.  Comparison is constant time on the
// digest of the header to avoid timing side channels.
func (s *Server) checkAuth(r *http.Request) bool {
	authhdr := r.Header["Authorization"]
	if len(authhdr) == 0 {
		return false
	}
	authsha := sha256.Sum256([]byte(authhdr[0]))
	return subtle.ConstantTimeCompare(authsha[:], s.authsha[:]) == 1
}

// jsonRPCRead handles reading and responding to RPC messages.
func (s *Server) jsonRPCRead(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	r.Body.Close()
	if err != nil {
		errCode := http.StatusBadRequest
		http.Error(w, fmt.Sprintf("%d error reading JSON message: %v",
			errCode, err), errCode)
		return
	}

	var request dcrjson.Request
	if err := json.Unmarshal(body, &request); err != nil {
		jsonErr := &dcrjson.RPCError{
			Code:    dcrjson.ErrRPCParse.Code,
			Message: "Failed to parse request: " + err.Error(),
		}
		reply, err := dcrjson.MarshalResponse("1.0", nil, nil, jsonErr)
		if err != nil {
			log.Errorf("Failed to marshal parse failure reply: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(reply)
		return
	}

	// Requests with no ID (notifications) must not have a response per the
	// JSON-RPC spec.
	if request.ID == nil {
		return
	}

	result, jsonErr := s.standardCmdResult(ctx, &request)
	reply, err := createMarshalledReply(request.Jsonrpc, request.ID, result,
		jsonErr)
	if err != nil {
		log.Errorf("Failed to marshal reply: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(reply); err != nil {
		log.Errorf("Failed to write reply: %v", err)
	}
}

// standardCmdResult parses a JSON-RPC request into a known concrete command
// and runs the appropriate handler to reply to the command.
func (s *Server) standardCmdResult(ctx context.Context, request *dcrjson.Request) (interface{}, error) {
	method := types.Method(request.Method)
	handler, ok := s.handlers[method]
	if !ok {
		return nil, dcrjson.ErrRPCMethodNotFound
	}

	params, err := dcrjson.ParseParams(method, request.Params)
	if err != nil {
		return nil, rpcInvalidError("Failed to parse request: %v", err)
	}
	return handler(ctx, s, params)
}

// createMarshalledReply returns a new marshalled JSON-RPC response given the
// passed parameters.  It will automatically convert errors that are not of
// the type *dcrjson.RPCError to the appropriate type as needed.
func createMarshalledReply(rpcVersion string, id interface{}, result interface{}, replyErr error) ([]byte, error) {
	if rpcVersion == "" {
		rpcVersion = "1.0"
	}
	var jsonErr *dcrjson.RPCError
	if replyErr != nil && !errors.As(replyErr, &jsonErr) {
		jsonErr = rpcInternalError(replyErr.Error(), "")
	}
	return dcrjson.MarshalResponse(rpcVersion, id, result, jsonErr)
}

// genCertPair generates a key/cert pair to the paths provided.
func genCertPair(certFile, keyFile string) error {
	log.Infof("Generating TLS certificates...")

	org := "pocxd autogenerated cert"
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(elliptic.P256(), org, validUntil, nil)
	if err != nil {
		return err
	}

	// Write cert and key files.
	if err = os.WriteFile(certFile, cert, 0644); err != nil {
		return err
	}
	if err = os.WriteFile(keyFile, key, 0600); err != nil {
		os.Remove(certFile)
		return err
	}

	log.Infof("Done generating TLS certificates")
	return nil
}

// Run starts the RPC server listening on the configured addresses and
// blocks until the provided context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		if r.Method != http.MethodPost {
			errCode := http.StatusMethodNotAllowed
			http.Error(w, fmt.Sprintf("%d method not allowed", errCode),
				errCode)
			return
		}
		if !s.checkAuth(r) {
			log.Warnf("RPC authentication failure from %s", r.RemoteAddr)
			w.Header().Set("WWW-Authenticate", `Basic realm="pocxd RPC"`)
			errCode := http.StatusUnauthorized
			http.Error(w, fmt.Sprintf("%d %s", errCode,
				http.StatusText(errCode)), errCode)
			return
		}
		s.jsonRPCRead(ctx, w, r)
	})

	httpServer := &http.Server{
		Handler:     mux,
		ReadTimeout: time.Second * rpcAuthTimeoutSeconds,
	}

	var tlsConfig *tls.Config
	if !s.cfg.DisableTLS {
		if !fileExists(s.cfg.CertFile) && !fileExists(s.cfg.KeyFile) {
			err := genCertPair(s.cfg.CertFile, s.cfg.KeyFile)
			if err != nil {
				return err
			}
		}
		keypair, err := tls.LoadX509KeyPair(s.cfg.CertFile, s.cfg.KeyFile)
		if err != nil {
			return err
		}
		tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{keypair},
			MinVersion:   tls.VersionTLS12,
		}
	}

	listeners := make([]net.Listener, 0, len(s.cfg.Listeners))
	for _, addr := range s.cfg.Listeners {
		var listener net.Listener
		var err error
		if tlsConfig != nil {
			listener, err = tls.Listen("tcp", addr, tlsConfig)
		} else {
			listener, err = net.Listen("tcp", addr)
		}
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return fmt.Errorf("unable to listen on %s: %w", addr, err)
		}
		listeners = append(listeners, listener)
	}

	for _, listener := range listeners {
		go func(listener net.Listener) {
			log.Infof("RPC server listening on %s", listener.Addr())
			_ = httpServer.Serve(listener)
			log.Tracef("RPC listener done for %s", listener.Addr())
		}(listener)
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	for _, listener := range listeners {
		listener.Close()
	}
	log.Info("RPC server shutdown complete")
	return nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		return !os.IsNotExist(err)
	}
	return true
}
