// Package config loads runtime settings from TOML or YAML files.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hedisam/tinyactor/actor"
	aerrors "github.com/hedisam/tinyactor/errors"
	"github.com/hedisam/tinyactor/internal/mailbox"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/pingcap/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type SupervisorConfig struct {
	Name          string `toml:"name" yaml:"name"`
	MaxActors     int    `toml:"max-actors" yaml:"max-actors"`
	MaxInterrupts int    `toml:"max-interrupts" yaml:"max-interrupts"`
}

type ActorConfig struct {
	MailboxCapacity int `toml:"mailbox-capacity" yaml:"mailbox-capacity"`
	SignalPoolSize  int `toml:"signal-pool-size" yaml:"signal-pool-size"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File is empty for stderr.
	File string `toml:"file" yaml:"file"`
}

type MetricsConfig struct {
	// Addr serves /metrics when set.
	Addr string `toml:"addr" yaml:"addr"`
}

type Config struct {
	Supervisor SupervisorConfig `toml:"supervisor" yaml:"supervisor"`
	Actor      ActorConfig      `toml:"actor" yaml:"actor"`
	Log        LogConfig        `toml:"log" yaml:"log"`
	Metrics    MetricsConfig    `toml:"metrics" yaml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := supervisor.NewOptions()
	return &Config{
		Supervisor: SupervisorConfig{
			Name:          opts.Name,
			MaxActors:     opts.MaxActors,
			MaxInterrupts: opts.MaxInterrupts,
		},
		Actor: ActorConfig{
			MailboxCapacity: mailbox.DefaultCapacity,
			SignalPoolSize:  mailbox.DefaultSignalPoolSize,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path on top of Default. The format follows the file extension:
// .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotate(aerrors.ErrLoadConfig.GenWithStackByArgs(path), err.Error())
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Annotate(aerrors.ErrLoadConfig.GenWithStackByArgs(path), err.Error())
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, aerrors.ErrInvalidConfig.GenWithStackByArgs("unknown keys " + joinKeys(undecoded))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Annotate(aerrors.ErrLoadConfig.GenWithStackByArgs(path), err.Error())
		}
	default:
		return nil, aerrors.ErrLoadConfig.GenWithStackByArgs(path + " (unsupported format " + ext + ")")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func joinKeys(keys []toml.Key) string {
	s := make([]string, 0, len(keys))
	for _, k := range keys {
		s = append(s, k.String())
	}
	return strings.Join(s, ", ")
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	if c.Supervisor.Name == "" {
		err = multierr.Append(err, aerrors.ErrInvalidConfig.GenWithStackByArgs("supervisor.name is empty"))
	}
	if c.Supervisor.MaxActors < 1 {
		err = multierr.Append(err, aerrors.ErrInvalidConfig.GenWithStackByArgs("supervisor.max-actors must be positive"))
	}
	if c.Supervisor.MaxInterrupts < 0 {
		err = multierr.Append(err, aerrors.ErrInvalidConfig.GenWithStackByArgs("supervisor.max-interrupts is negative"))
	}
	if c.Actor.MailboxCapacity < 1 {
		err = multierr.Append(err, aerrors.ErrInvalidConfig.GenWithStackByArgs("actor.mailbox-capacity must be positive"))
	}
	if c.Actor.SignalPoolSize < 1 {
		err = multierr.Append(err, aerrors.ErrInvalidConfig.GenWithStackByArgs("actor.signal-pool-size must be positive"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, aerrors.ErrInvalidConfig.GenWithStackByArgs("log.level "+c.Log.Level))
	}
	return err
}

func (c *Config) SupervisorOptions() supervisor.Options {
	return supervisor.NewOptions().
		SetName(c.Supervisor.Name).
		SetMaxActors(c.Supervisor.MaxActors).
		SetMaxInterrupts(c.Supervisor.MaxInterrupts)
}

// ActorOptions returns the mailbox and signal pool defaults for every actor, followed
// by extra.
func (c *Config) ActorOptions(extra ...actor.Option) []actor.Option {
	opts := []actor.Option{
		actor.WithMailboxCapacity(c.Actor.MailboxCapacity),
		actor.WithSignalPoolSize(c.Actor.SignalPoolSize),
	}
	return append(opts, extra...)
}

// Encode writes c as TOML.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", errors.Trace(err)
	}
	return buf.String(), nil
}
