// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bgentry/go-netrc/netrc"

	platformnet "github.com/ManuGH/tivoctl/internal/platform/net"
)

func defaultNetrcPath() string {
	if p := os.Getenv("NETRC"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}

// applyNetrc fills in device credentials when no password is configured.
// A missing default netrc is ignored; an explicitly configured one must exist.
func (l *Loader) applyNetrc(cfg *Config) error {
	if cfg.Device.Password != "" || cfg.Device.Address == "" {
		return nil
	}
	path := cfg.Device.Netrc
	explicit := path != ""
	if !explicit && l.netrcPath != nil {
		path = l.netrcPath()
	}
	if path == "" {
		return nil
	}
	// #nosec G304 -- netrc path is provided by the operator
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read netrc: %w", err)
	}
	defer func() { _ = f.Close() }()

	n, err := netrc.Parse(f)
	if err != nil {
		return fmt.Errorf("parse netrc %s: %w", path, err)
	}
	// FindMachine falls back to the default entry.
	m := n.FindMachine(platformnet.Hostname(cfg.Device.Address))
	if m == nil {
		return nil
	}
	if m.Login != "" {
		cfg.Device.Username = m.Login
	}
	cfg.Device.Password = m.Password
	return nil
}
