package config

import (
	"fmt"
	"time"

	"github.com/wakeboard/wakeboard/internal/errors"
	"github.com/wakeboard/wakeboard/internal/wol"
)

// MinRefreshInterval guards against probe storms from typoed intervals.
const MinRefreshInterval = 1 * time.Second

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.RefreshInterval < MinRefreshInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_interval %s is too short", cfg.RefreshInterval),
			"Use at least 1s; the default is 15s")
	}

	if len(cfg.Systems) == 0 {
		return errors.New(errors.ErrConfig,
			"No systems configured",
			"Add at least one entry under 'systems' in "+ConfigFileName)
	}

	seen := make(map[string]bool)
	for i := range cfg.Systems {
		s := &cfg.Systems[i]
		if s.Name == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("System %d has no name", i),
				"Every system needs a unique 'name'")
		}
		if seen[s.Name] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Duplicate system name '%s'", s.Name),
				"System names must be unique")
		}
		seen[s.Name] = true

		if err := validateSystem(s); err != nil {
			return err
		}
	}

	return nil
}

// validateSystem checks one system's capability composition: exactly one
// health capability, and complete config for every optional capability.
func validateSystem(s *System) error {
	switch {
	case s.Ping == nil && s.HTTP == nil:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("System '%s' has no health check", s.Name),
			"Configure either 'ping' or 'http'")
	case s.Ping != nil && s.HTTP != nil:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("System '%s' has both ping and http checks", s.Name),
			"Configure exactly one of 'ping' or 'http'")
	}

	if s.Ping != nil && s.Ping.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("System '%s': ping needs a host", s.Name),
			"Set ping.host to an IP address or hostname")
	}

	if s.HTTP != nil {
		if s.HTTP.URL == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("System '%s': http needs a url", s.Name),
				"Set http.url, e.g. https://10.0.0.7:3000")
		}
		if s.HTTP.ExpectedStatus < 100 || s.HTTP.ExpectedStatus > 599 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("System '%s': expected_status %d is not a valid HTTP status",
					s.Name, s.HTTP.ExpectedStatus),
				"Use a status code between 100 and 599")
		}
	}

	if s.WOL != nil {
		if _, err := wol.ParseHardwareAddr(s.WOL.MAC); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("System '%s': invalid wol.mac", s.Name),
				"Use six hex octets, e.g. AA:BB:CC:DD:EE:FF")
		}
	}

	if s.SSH != nil {
		if s.SSH.Host == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("System '%s': ssh needs a host", s.Name),
				"Set ssh.host to an IP address or hostname")
		}
		if s.SSH.Port < 1 || s.SSH.Port > 65535 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("System '%s': ssh.port %d is out of range", s.Name, s.SSH.Port),
				"Use a port between 1 and 65535")
		}
		if len(s.SSH.Actions) == 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("System '%s': ssh is configured but has no actions", s.Name),
				"Add at least one entry under ssh.actions, or drop the ssh section")
		}
		actionNames := make(map[string]bool)
		for j, a := range s.SSH.Actions {
			if a.Name == "" || a.Run == "" {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("System '%s': ssh action %d needs both a name and a run command", s.Name, j),
					"Every action needs 'name' and 'run'")
			}
			if actionNames[a.Name] {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("System '%s': duplicate action name '%s'", s.Name, a.Name),
					"Action names must be unique per system")
			}
			actionNames[a.Name] = true
		}
	}

	return nil
}
