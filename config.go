// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"

	"github.com/decred/dcrd/dcrutil/v4"
	flags "github.com/jessevdk/go-flags"

	"github.com/pocx-project/pocxd/chaincfg"
	"github.com/pocx-project/pocxd/internal/version"
)

const (
	defaultConfigFilename = "pocxd.conf"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "pocxd.log"
	defaultLogLevel       = "info"
	defaultRPCUser        = ""
	defaultRPCPass        = ""
)

var (
	// defaultHomeDir is the default home directory for pocxd.
	defaultHomeDir = dcrutil.AppDataDir("pocxd", false)

	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
	defaultRPCCert    = filepath.Join(defaultHomeDir, "rpc.cert")
	defaultRPCKey     = filepath.Join(defaultHomeDir, "rpc.key")
)

// config defines the configuration options for pocxd.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string   `short:"C" long:"configfile" description:"Path to configuration file"`
	HomeDir     string   `short:"A" long:"appdata" description:"Path to application home directory"`
	DataDir     string   `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir      string   `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`
	TestNet     bool     `long:"testnet" description:"Use the test network"`
	RegNet      bool     `long:"regnet" description:"Use the regression test network"`
	DebugLevel  string   `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	RPCUser     string   `short:"u" long:"rpcuser" description:"Username for RPC connections"`
	RPCPass     string   `short:"P" long:"rpcpass" default-mask:"-" description:"Password for RPC connections"`
	RPCListeners []string `long:"rpclisten" description:"Add an interface/port to listen for RPC connections (default port: 9109, testnet: 19109, regnet: 18656)"`
	RPCCert     string   `long:"rpccert" description:"File containing the certificate file"`
	RPCKey      string   `long:"rpckey" description:"File containing the certificate key"`
	DisableRPC  bool     `long:"norpc" description:"Disable built-in RPC server"`
	DisableTLS  bool     `long:"notls" description:"Disable TLS for the RPC server"`
	SigningKeys []string `long:"signingkey" description:"Hex encoded private key authorized to sign forged blocks (may be repeated)"`
	GenerateKey bool     `long:"generatekey" description:"Generate and log a fresh block signing key at startup (regnet convenience)"`
}

// errSuppressUsage signifies that an error should not print the usage
// message along with it.
type errSuppressUsage string

// Error implements the error interface.
func (e errSuppressUsage) Error() string {
	return string(e)
}

// normalizeAddresses returns a new slice with all the passed addresses
// normalized with the given default port and all duplicates removed.
func normalizeAddresses(addrs []string, defaultPort string) []string {
	result := make([]string, 0, len(addrs))
	seen := map[string]struct{}{}
	for _, addr := range addrs {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			addr = net.JoinHostPort(addr, defaultPort)
		}
		if _, ok := seen[addr]; !ok {
			result = append(result, addr)
			seen[addr] = struct{}{}
		}
	}
	return result
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func loadConfig(appName string) (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile: defaultConfigFile,
		HomeDir:    defaultHomeDir,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		RPCUser:    defaultRPCUser,
		RPCPass:    defaultRPCPass,
		RPCCert:    defaultRPCCert,
		RPCKey:     defaultRPCKey,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go %s)\n", appName, version.String(),
			runtime.Version())
		os.Exit(0)
	}

	// Update the home directory for pocxd if specified.  Since the home
	// directory is updated, other variables need to be updated to reflect
	// the new changes.
	if preCfg.HomeDir != defaultHomeDir {
		cfg.HomeDir, _ = filepath.Abs(preCfg.HomeDir)
		if preCfg.ConfigFile == defaultConfigFile {
			cfg.ConfigFile = filepath.Join(cfg.HomeDir,
				defaultConfigFilename)
		} else {
			cfg.ConfigFile = preCfg.ConfigFile
		}
		if preCfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
		} else {
			cfg.DataDir = preCfg.DataDir
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		} else {
			cfg.LogDir = preCfg.LogDir
		}
		if preCfg.RPCCert == defaultRPCCert {
			cfg.RPCCert = filepath.Join(cfg.HomeDir, "rpc.cert")
		} else {
			cfg.RPCCert = preCfg.RPCCert
		}
		if preCfg.RPCKey == defaultRPCKey {
			cfg.RPCKey = filepath.Join(cfg.HomeDir, "rpc.key")
		} else {
			cfg.RPCKey = preCfg.RPCKey
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	if fileExists(cfg.ConfigFile) {
		err = flags.NewIniParser(parser).ParseFile(cfg.ConfigFile)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to parse config file: %w",
				err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	// Multiple networks can't be selected simultaneously.
	numNets := 0
	activeNetParams = chaincfg.MainNetParams()
	if cfg.TestNet {
		numNets++
		activeNetParams = chaincfg.TestNetParams()
	}
	if cfg.RegNet {
		numNets++
		activeNetParams = chaincfg.RegNetParams()
	}
	if numNets > 1 {
		str := "the testnet and regnet params can't be used together -- " +
			"choose one of the two"
		return nil, nil, errSuppressUsage(str)
	}

	// Append the network type to the data and log directories so they are
	// network specific.
	cfg.DataDir = filepath.Join(cfg.DataDir, activeNetParams.Name)
	cfg.LogDir = filepath.Join(cfg.LogDir, activeNetParams.Name)

	// Validate debug log level.
	if !validLogLevel(cfg.DebugLevel) {
		str := fmt.Sprintf("the specified debug level [%v] is invalid",
			cfg.DebugLevel)
		return nil, nil, errSuppressUsage(str)
	}

	// Initialize log rotation.  After the log rotation has been
	// initialized, the logger variables may be used.
	if !cfg.NoFileLogging {
		initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	}
	setLogLevels(cfg.DebugLevel)

	// The RPC server requires credentials unless it is disabled.
	if !cfg.DisableRPC && (cfg.RPCUser == "" || cfg.RPCPass == "") {
		str := "the RPC server requires both --rpcuser and --rpcpass " +
			"(or --norpc to disable it)"
		return nil, nil, errSuppressUsage(str)
	}

	// Default RPC to listen on localhost only.
	if !cfg.DisableRPC && len(cfg.RPCListeners) == 0 {
		addrs, err := net.LookupHost("localhost")
		if err != nil {
			return nil, nil, err
		}
		cfg.RPCListeners = make([]string, 0, len(addrs))
		for _, addr := range addrs {
			addr = net.JoinHostPort(addr, activeNetParams.DefaultRPCPort)
			cfg.RPCListeners = append(cfg.RPCListeners, addr)
		}
	}
	cfg.RPCListeners = normalizeAddresses(cfg.RPCListeners,
		activeNetParams.DefaultRPCPort)

	return &cfg, remainingArgs, nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		return !os.IsNotExist(err)
	}
	return true
}
