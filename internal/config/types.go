package config

import "time"

// Defaults for the two independent cadences: how often systems are probed
// and how often the dashboard repaints from the latest snapshots.
const (
	DefaultRefreshInterval = 15 * time.Second
	DefaultRenderInterval  = 2 * time.Second
)

// Config represents the complete .wakeboard.yaml configuration file.
type Config struct {
	// RefreshInterval is the probe cadence for all systems.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// RenderInterval is the dashboard repaint cadence. The dashboard only
	// reads snapshots; it never triggers probes.
	RenderInterval time.Duration `yaml:"render_interval" mapstructure:"render_interval"`

	// Systems is the ordered list of monitored systems.
	Systems []System `yaml:"systems" mapstructure:"systems"`
}

// System describes one monitored target and its capabilities. Exactly one
// health capability (ping or http) must be set; wol and ssh are optional.
type System struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Description string `yaml:"description" mapstructure:"description"`

	Ping *PingCheck `yaml:"ping,omitempty" mapstructure:"ping"`
	HTTP *HTTPCheck `yaml:"http,omitempty" mapstructure:"http"`
	WOL  *Wake      `yaml:"wol,omitempty" mapstructure:"wol"`
	SSH  *Remote    `yaml:"ssh,omitempty" mapstructure:"ssh"`
}

// PingCheck configures the reachability health capability.
type PingCheck struct {
	Host string `yaml:"host" mapstructure:"host"`
}

// HTTPCheck configures the HTTP health capability.
type HTTPCheck struct {
	URL string `yaml:"url" mapstructure:"url"`

	// ExpectedStatus is the status code that counts as healthy. Zero
	// defaults to 200.
	ExpectedStatus int `yaml:"expected_status" mapstructure:"expected_status"`

	// AllowSelfSigned skips TLS certificate verification for this endpoint.
	AllowSelfSigned bool `yaml:"allow_self_signed" mapstructure:"allow_self_signed"`
}

// Wake configures the Wake-on-LAN capability.
type Wake struct {
	MAC string `yaml:"mac" mapstructure:"mac"`
}

// Remote configures the SSH remote-command capability.
type Remote struct {
	Host string `yaml:"host" mapstructure:"host"`

	// Port defaults to 22 (or the host's ~/.ssh/config entry).
	Port int `yaml:"port" mapstructure:"port"`

	// User and KeyFile fall back to ~/.ssh/config, then the usual defaults.
	User    string `yaml:"user" mapstructure:"user"`
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// Passphrase unlocks an encrypted key. Empty for unencrypted keys.
	Passphrase string `yaml:"passphrase" mapstructure:"passphrase"`

	// ActionsWhenUnknown controls whether remote actions are offered while
	// the system state is UNKNOWN. Defaults to true; actions are always
	// suppressed while the state is FAILED.
	ActionsWhenUnknown *bool `yaml:"actions_when_unknown,omitempty" mapstructure:"actions_when_unknown"`

	// Actions is the ordered list of named remote commands.
	Actions []RemoteAction `yaml:"actions" mapstructure:"actions"`
}

// RemoteAction is one named command exposed as a dashboard button.
type RemoteAction struct {
	Name string `yaml:"name" mapstructure:"name"`
	Run  string `yaml:"run" mapstructure:"run"`
}

// OfferWhenUnknown reports whether remote actions should be listed while
// the system state is UNKNOWN.
func (r *Remote) OfferWhenUnknown() bool {
	return r.ActionsWhenUnknown == nil || *r.ActionsWhenUnknown
}

// DefaultConfig returns a Config with sensible defaults and no systems.
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: DefaultRefreshInterval,
		RenderInterval:  DefaultRenderInterval,
	}
}

// applyDefaults fills zero values after unmarshalling.
func (c *Config) applyDefaults() {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.RenderInterval <= 0 {
		c.RenderInterval = DefaultRenderInterval
	}
	for i := range c.Systems {
		if c.Systems[i].HTTP != nil && c.Systems[i].HTTP.ExpectedStatus == 0 {
			c.Systems[i].HTTP.ExpectedStatus = 200
		}
		if c.Systems[i].SSH != nil && c.Systems[i].SSH.Port == 0 {
			c.Systems[i].SSH.Port = 22
		}
	}
}
