// Package config handles configuration for the CLI client.
package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/messagely/internal/flagx"
)

// Config holds runtime settings for the Messagely CLI client.
type Config struct {
	ServerEndpointAddr string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8080"
}

// LoadConfig builds a Config from defaults overlaid with an optional
// JSON file and command-line flags, later sources taking precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// parseFlags populates Config fields from the flags the client owns:
//
//	-a string   server endpoint (e.g., "http://localhost:8080")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "server endpoint address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
