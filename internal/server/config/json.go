package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/messagely/internal/flagx"
	"github.com/dmitrijs2005/messagely/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files. timex.Duration accepts both "24h" strings and integer
// nanoseconds; after unmarshalling, values are copied into the runtime
// Config which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When the flag is absent,
// nothing is loaded. An unreadable or invalid file panics: a partially
// applied config is worse than a refusal to start.
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

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.BcryptCost = c.BcryptCost
}
