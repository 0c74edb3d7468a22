package module

import (
	"time"

	"textguard/internal/adapters/alerting/webhook"
	"textguard/internal/adapters/reputation/virustotal"
	"textguard/internal/core/engine"
	"textguard/internal/core/linkcheck"
	"textguard/internal/platform/config"
)

// Options holds the screen module settings
type Options struct {
	Timeout time.Duration

	// PolicyFile switches the policy store from Postgres to a YAML file
	PolicyFile    string
	PolicyReload  time.Duration // debounce; 0 disables the watcher
	PolicyTimeout time.Duration

	ProbeRedirects     bool
	ProbeTimeout       time.Duration
	ReputationCooldown time.Duration
	VirusTotal         virustotal.Options

	Alerts            webhook.Options
	AlertTimeout      time.Duration
	MaxInflightAlerts int
}

// FromConfig reads CORE_SCREEN_*, SERVICE_VIRUSTOTAL_* and SERVICE_ALERTS_*
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_SCREEN_")
	vt := cfg.Prefix("SERVICE_VIRUSTOTAL_")
	al := cfg.Prefix("SERVICE_ALERTS_")
	return Options{
		Timeout:            sc.MayDuration("TIMEOUT", engine.DefaultTimeout),
		PolicyFile:         sc.MayString("POLICY_FILE", ""),
		PolicyReload:       sc.MayDuration("POLICY_RELOAD", 250*time.Millisecond),
		PolicyTimeout:      sc.MayDuration("POLICY_TIMEOUT", 2*time.Second),
		ProbeRedirects:     sc.MayBool("PROBE_REDIRECTS", true),
		ProbeTimeout:       sc.MayDuration("PROBE_TIMEOUT", linkcheck.DefaultProbeTimeout),
		ReputationCooldown: sc.MayDuration("REPUTATION_COOLDOWN", linkcheck.DefaultCooldown),
		VirusTotal: virustotal.Options{
			BaseURL: vt.MayString("URL", ""),
			APIKey:  vt.MayString("API_KEY", ""),
			Timeout: vt.MayDuration("TIMEOUT", 10*time.Second),
		},
		Alerts: webhook.Options{
			URL:     al.MayString("URL", ""),
			Token:   al.MayString("TOKEN", ""),
			Timeout: al.MayDuration("TIMEOUT", 5*time.Second),
		},
		AlertTimeout:      al.MayDuration("DEADLINE", 5*time.Second),
		MaxInflightAlerts: sc.MayInt("MAX_INFLIGHT_ALERTS", 64),
	}
}
