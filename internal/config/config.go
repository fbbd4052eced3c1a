package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocols"
)

// Config is the resolved decoder configuration shared by the tools.
type Config struct {
	NEXVersion   nex.Version
	PRUDPVersion int
	HeaderRule   nex.HeaderRule
	Title        string
	Workers      int
	LogLevel     string
	Inspect      InspectConfig

	// MK8ExtraParticipantsMethod overrides the Mario Kart 8 method id. Zero
	// keeps the built-in default.
	MK8ExtraParticipantsMethod uint32
}

type InspectConfig struct {
	Addr         string
	CorsOrigins  []string
	MaxBodyBytes int64
	TLSCertFile  string
	TLSKeyFile   string
}

// TLS reports whether the inspect server should serve HTTPS.
func (c InspectConfig) TLS() bool { return c.TLSCertFile != "" }

type fileConfig struct {
	NEXVersion   string      `toml:"nex_version"`
	PRUDPVersion int         `toml:"prudp_version"`
	HeaderRule   string      `toml:"header_rule"`
	Title        string      `toml:"title"`
	Workers      int         `toml:"workers"`
	LogLevel     string      `toml:"log_level"`
	Inspect      fileInspect `toml:"inspect"`

	MK8ExtraParticipantsMethod uint32 `toml:"mk8_extra_participants_method"`
}

type fileInspect struct {
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	TLSCertFile  string   `toml:"tls_cert_file"`
	TLSKeyFile   string   `toml:"tls_key_file"`
}

func Default() Config {
	return Config{
		NEXVersion:   nex.Version{Major: 3, Minor: 5},
		PRUDPVersion: 1,
		HeaderRule:   nex.HeaderRuleVersion,
		Title:        protocols.TitleDefault,
		Workers:      4,
		Inspect: InspectConfig{
			Addr:         ":9310",
			CorsOrigins:  []string{"http://localhost:3000"},
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Context is the decoding context the config describes.
func (c Config) Context() nex.Context {
	return nex.Context{NEXVersion: c.NEXVersion, PRUDPVersion: c.PRUDPVersion, HeaderRule: c.HeaderRule}
}

// Selection is the protocol set the config describes.
func (c Config) Selection() protocols.Selection {
	return protocols.Selection{Title: c.Title, MK8ExtraParticipantsMethod: c.MK8ExtraParticipantsMethod}
}

// Load reads path over Default. Only keys present in the file override.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("nex_version") {
		v, err := nex.ParseVersion(strings.TrimSpace(raw.NEXVersion))
		if err != nil {
			return Config{}, fmt.Errorf("parse nex_version: %w", err)
		}
		cfg.NEXVersion = v
	}
	if meta.IsDefined("prudp_version") {
		cfg.PRUDPVersion = raw.PRUDPVersion
	}
	if meta.IsDefined("header_rule") {
		rule, err := nex.ParseHeaderRule(raw.HeaderRule)
		if err != nil {
			return Config{}, fmt.Errorf("parse header_rule: %w", err)
		}
		cfg.HeaderRule = rule
	}
	if meta.IsDefined("title") {
		cfg.Title = strings.ToLower(strings.TrimSpace(raw.Title))
	}
	if meta.IsDefined("mk8_extra_participants_method") {
		cfg.MK8ExtraParticipantsMethod = raw.MK8ExtraParticipantsMethod
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("inspect", "addr") {
		cfg.Inspect.Addr = strings.TrimSpace(raw.Inspect.Addr)
	}
	if meta.IsDefined("inspect", "cors_origins") {
		cfg.Inspect.CorsOrigins = normalizeOrigins(raw.Inspect.CorsOrigins)
	}
	if meta.IsDefined("inspect", "max_body_bytes") {
		cfg.Inspect.MaxBodyBytes = raw.Inspect.MaxBodyBytes
	}
	if meta.IsDefined("inspect", "tls_cert_file") {
		cfg.Inspect.TLSCertFile = strings.TrimSpace(raw.Inspect.TLSCertFile)
	}
	if meta.IsDefined("inspect", "tls_key_file") {
		cfg.Inspect.TLSKeyFile = strings.TrimSpace(raw.Inspect.TLSKeyFile)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if cfg.PRUDPVersion != 0 && cfg.PRUDPVersion != 1 {
		return fmt.Errorf("prudp_version must be 0 or 1, got %d", cfg.PRUDPVersion)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if _, err := cfg.Selection().Protocols(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Inspect.Addr) == "" {
		return fmt.Errorf("inspect config missing addr")
	}
	if cfg.Inspect.MaxBodyBytes <= 0 {
		return fmt.Errorf("inspect max_body_bytes must be positive")
	}
	if (cfg.Inspect.TLSCertFile == "") != (cfg.Inspect.TLSKeyFile == "") {
		return fmt.Errorf("inspect tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
