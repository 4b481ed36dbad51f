// Package config declares the command-line and environment options shared by
// the chain-metrics binaries.
package config

import (
	"errors"
	"time"

	"github.com/jessevdk/go-flags"
)

type RPC struct {
	URL      string `long:"rpc-url" env:"CHAIN_METRICS_RPC_URL" description:"Bitcoin node RPC URL" default:"http://127.0.0.1:8332"`
	User     string `long:"rpc-user" env:"CHAIN_METRICS_RPC_USER" description:"Bitcoin node RPC username (required)"`
	Password string `long:"rpc-password" env:"CHAIN_METRICS_RPC_PASSWORD" description:"Bitcoin node RPC password (required)"`
}

type Store struct {
	DBPath string `long:"db-path" env:"CHAIN_METRICS_DB_PATH" description:"SQLite database file" default:"blockchain.db"`
}

type Log struct {
	Dir   string `long:"log-dir" env:"CHAIN_METRICS_LOG_DIR" description:"directory for log files" default:"../log"`
	Level string `long:"log-level" env:"CHAIN_METRICS_LOG_LEVEL" description:"log level" choice:"error" choice:"warn" choice:"info" choice:"debug" default:"info"`
}

type Server struct {
	ListenAddr     string        `long:"listen-addr" env:"CHAIN_METRICS_LISTEN_ADDR" description:"HTTP listen address" default:"127.0.0.1:8080"`
	IngestInterval time.Duration `long:"ingest-interval" env:"CHAIN_METRICS_INGEST_INTERVAL" description:"interval between scheduled ingestions" default:"60s"`
}

// API is the option set of the server binary.
type API struct {
	Server Server `group:"Server Options"`
	RPC    RPC    `group:"RPC Options"`
	Store  Store  `group:"Store Options"`
	Log    Log    `group:"Log Options"`
}

// Ingest is the option set of the one-shot ingest binary.
type Ingest struct {
	RPC   RPC   `group:"RPC Options"`
	Store Store `group:"Store Options"`
	Log   Log   `group:"Log Options"`
}

// ErrHelp is returned by Parse when the caller asked for usage.
var ErrHelp = errors.New("help requested")

// Parse fills data from args (without the program name) and the environment.
func Parse(data interface{}, args []string) error {
	_, err := flags.ParseArgs(data, args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return ErrHelp
		}
		return err
	}
	return nil
}
