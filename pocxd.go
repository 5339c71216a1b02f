// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pocx-project/pocxd/assignment"
	"github.com/pocx-project/pocxd/internal/blockchain"
	"github.com/pocx-project/pocxd/internal/keyring"
	"github.com/pocx-project/pocxd/internal/rpcserver"
	"github.com/pocx-project/pocxd/internal/version"
	"github.com/pocx-project/pocxd/mining"
	"github.com/pocx-project/pocxd/pocxutil"
)

// cfg is the loaded configuration for the process.
var cfg *config

// pocxdMain is the real main function for pocxd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func pocxdMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	tcfg, _, err := loadConfig(appName)
	if err != nil {
		usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem such as the RPC server.
	ctx := shutdownListener()
	defer pocxdLog.Info("Shutdown complete")

	// Show version and home dir at startup.
	pocxdLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	pocxdLog.Infof("Home dir: %s", cfg.HomeDir)

	// Load the block signing keys.
	keyRing := keyring.New()
	for _, hexKey := range cfg.SigningKeys {
		account, err := keyRing.ImportHex(hexKey)
		if err != nil {
			pocxdLog.Errorf("Unable to import signing key: %v", err)
			return err
		}
		addr := pocxutil.NewAddress(activeNetParams.AddressHRP, account)
		pocxdLog.Infof("Imported block signing key for %s", addr)
	}
	if cfg.GenerateKey {
		_, account, err := keyRing.GenerateKey()
		if err != nil {
			pocxdLog.Errorf("Unable to generate signing key: %v", err)
			return err
		}
		addr := pocxutil.NewAddress(activeNetParams.AddressHRP, account)
		pocxdLog.Infof("Generated block signing key for %s", addr)
	}

	// Open the assignment state database.
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return err
	}
	store, err := assignment.NewLevelStore(filepath.Join(cfg.DataDir,
		"assignments"))
	if err != nil {
		pocxdLog.Errorf("Unable to open assignment database: %v", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			pocxdLog.Errorf("Unable to close assignment database: %v", err)
		}
	}()

	// Create the chain manager anchored at the genesis block.
	chain := blockchain.New(&blockchain.Config{
		ChainParams:     activeNetParams,
		AssignmentStore: store,
	})

	// Create the block assembler and the forging scheduler.
	assembler := mining.NewBlockAssembler(&mining.AssemblerConfig{
		ChainParams: activeNetParams,
		Templates:   chain,
		Assignments: chain.AssignmentView(),
		KeyStore:    keyRing,
	})
	scheduler := mining.NewScheduler(&mining.SchedulerConfig{
		ChainParams: activeNetParams,
		Chain:       chain,
		Assembler:   assembler,
		SubmitBlock: chain.SubmitBlock,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	// Create and start the RPC server.
	if !cfg.DisableRPC {
		rpcServer := rpcserver.New(&rpcserver.Config{
			Listeners:   cfg.RPCListeners,
			User:        cfg.RPCUser,
			Pass:        cfg.RPCPass,
			DisableTLS:  cfg.DisableTLS,
			CertFile:    cfg.RPCCert,
			KeyFile:     cfg.RPCKey,
			ChainParams: activeNetParams,
			Chain:       chain,
			Scheduler:   scheduler,
			KeyRing:     keyRing,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rpcServer.Run(ctx); err != nil {
				pocxdLog.Errorf("RPC server error: %v", err)
				if !shutdownRequested(ctx) {
					shutdownRequestChannel <- struct{}{}
				}
			}
		}()
	}

	wg.Wait()
	return nil
}

// shutdownRequested returns true when the context returned by
// shutdownListener was canceled.  This simplifies early shutdown slightly
// since the caller can just use an if statement instead of a select.
func shutdownRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}

	return false
}

func main() {
	// Work around defer not working after os.Exit()
	if err := pocxdMain(); err != nil {
		os.Exit(1)
	}
}
