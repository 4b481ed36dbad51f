package noderpc

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/btcsuite/btcd/rpcclient"

	"chain-metrics/internal/config"
)

// NewClient builds an HTTP POST mode connection to the node described by cfg.
// Nothing is sent until the first call.
func NewClient(cfg config.RPC) (*rpcclient.Client, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}
	// btcd falls back to cookie auth when either is empty, which then fails
	// on every call instead of here.
	if cfg.User == "" || cfg.Password == "" {
		return nil, errors.New("rpc user and password are required")
	}

	connCfg := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         cfg.User,
		Pass:         cfg.Password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
	return rpcclient.New(connCfg, nil)
}
