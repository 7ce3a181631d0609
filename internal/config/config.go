// Package config assembles the bridge configuration from CLI flags and an
// optional YAML file. Flags that were set explicitly override file values.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/R167/starnmea/internal/security"
)

const (
	ModeTCP = "tcp"
	ModeUDP = "udp"
	ModeWS  = "ws"
)

type Config struct {
	Mode      string        // tcp, udp or ws
	Host      string        // bind host (tcp/ws) or target host (udp)
	Port      int
	Interval  time.Duration // delay between poll cycles
	DishAddr  string        // explicit dish address; auto-detected when empty
	TestFile  string        // diagnostic JSON substituting for a live dish
	Broadcast bool          // set SO_BROADCAST on the UDP socket
	Verbose   bool
}

func Default() Config {
	return Config{
		Mode:     ModeTCP,
		Host:     "0.0.0.0",
		Port:     10110,
		Interval: time.Second,
	}
}

// fileConfig is the YAML schema. The poll interval is given in seconds to
// match the CLI of earlier revisions.
type fileConfig struct {
	Output struct {
		Mode      string  `yaml:"mode"`
		Host      string  `yaml:"host"`
		Port      int     `yaml:"port"`
		IntervalS float64 `yaml:"interval_s"`
		Broadcast bool    `yaml:"broadcast"`
	} `yaml:"output"`
	Dish struct {
		Addr     string `yaml:"addr"`
		TestFile string `yaml:"test_file"`
	} `yaml:"dish"`
	Verbose bool `yaml:"verbose"`
}

// Load reads a YAML config file over the defaults. Validation is the
// caller's job (ParseFlags validates after merging).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Default()
	if fc.Output.Mode != "" {
		cfg.Mode = fc.Output.Mode
	}
	if fc.Output.Host != "" {
		cfg.Host = fc.Output.Host
	}
	if fc.Output.Port != 0 {
		cfg.Port = fc.Output.Port
	}
	if fc.Output.IntervalS > 0 {
		cfg.Interval = time.Duration(fc.Output.IntervalS * float64(time.Second))
	}
	cfg.Broadcast = fc.Output.Broadcast
	cfg.DishAddr = fc.Dish.Addr
	cfg.TestFile = fc.Dish.TestFile
	cfg.Verbose = fc.Verbose
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeTCP, ModeUDP, ModeWS:
	default:
		return fmt.Errorf("mode must be tcp, udp or ws, got %q", c.Mode)
	}
	if err := security.ValidatePort(c.Port); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.DishAddr != "" {
		if _, err := security.SanitizeHostname(c.DishAddr); err != nil {
			return fmt.Errorf("dish address: %w", err)
		}
	}
	return nil
}

// ParseFlags builds the configuration from command-line arguments. When
// -config names a YAML file, the file supplies the base values and only
// flags the user actually set override them.
func ParseFlags(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("starnmea", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file; explicit flags override its values")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Output mode: tcp, udp or ws")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Bind host for TCP/WS or target for UDP")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port for TCP/UDP/WS")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Delay between updates (e.g. 1s, 500ms)")
	fs.StringVar(&cfg.DishAddr, "dish-host", cfg.DishAddr, "Dish IP/host (auto-detected if omitted)")
	fs.StringVar(&cfg.TestFile, "test-file", cfg.TestFile, "Use diagnostic JSON from file (for testing without dish)")
	fs.BoolVar(&cfg.Broadcast, "broadcast", cfg.Broadcast, "Enable UDP broadcast")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		fileCfg, err := Load(*configPath)
		if err != nil {
			return Config{}, err
		}
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		if !set["mode"] {
			cfg.Mode = fileCfg.Mode
		}
		if !set["host"] {
			cfg.Host = fileCfg.Host
		}
		if !set["port"] {
			cfg.Port = fileCfg.Port
		}
		if !set["interval"] {
			cfg.Interval = fileCfg.Interval
		}
		if !set["dish-host"] {
			cfg.DishAddr = fileCfg.DishAddr
		}
		if !set["test-file"] {
			cfg.TestFile = fileCfg.TestFile
		}
		if !set["broadcast"] {
			cfg.Broadcast = fileCfg.Broadcast
		}
		if !set["verbose"] {
			cfg.Verbose = fileCfg.Verbose
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
