package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/messagely/internal/flagx"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files.
type JsonConfig struct {
	ServerEndpointAddr string `json:"server_endpoint_addr"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When the flag is absent,
// nothing is loaded. An unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
}
