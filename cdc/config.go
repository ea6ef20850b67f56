package cdc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/estuary/maxscale-cdc/schemagen"
)

// Version is the connector protocol version embedded in the default
// REGISTER client identity.
const Version = "1.0.0"

const defaultClientID = "CDC_CONNECTOR-" + Version

// Config tells the client how to reach the MaxScale CDC listener and
// how to authenticate against it. Address and credentials are fixed
// for the lifetime of a Connection; to change them, construct a new
// connection.
type Config struct {
	Address  string         `json:"address" jsonschema:"title=Server Address and Port,default=127.0.0.1:4001,description=The host:port at which the CDC listener can be reached."`
	Login    loginConfig    `json:"login" jsonschema:"title=Login Configuration"`
	Advanced advancedConfig `json:"advanced,omitempty" jsonschema:"title=Advanced Options,description=Options for advanced users. You should not typically need to modify these." jsonschema_extras:"advanced=true"`
}

type loginConfig struct {
	User     string `json:"user" jsonschema:"title=Login Username,description=The CDC service user to authenticate as."`
	Password string `json:"password" jsonschema:"title=Login Password,description=Password for the specified service user." jsonschema_extras:"secret=true"`
}

type advancedConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"title=Operation Timeout,default=10,description=Timeout in seconds applied uniformly to every blocking network wait."`
	ClientID       string `json:"client_id,omitempty" jsonschema:"title=Client ID,description=Identity reported in the REGISTER handshake. Leave unset for the default connector identity."`
}

// Validate checks that the configuration possesses all required properties.
func (c *Config) Validate() error {
	var requiredProperties = [][]string{
		{"address", c.Address},
		{"user", c.Login.User},
		{"password", c.Login.Password},
	}
	for _, req := range requiredProperties {
		if req[1] == "" {
			return fmt.Errorf("missing '%s'", req[0])
		}
	}
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return &AddressError{Address: c.Address, Reason: err}
	}
	if c.Advanced.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must not be negative (got %d)", c.Advanced.TimeoutSeconds)
	}
	return nil
}

// SetDefaults fills in the default values for unset optional parameters.
func (c *Config) SetDefaults() {
	// Note these are 1:1 with 'omitempty' in Config field tags,
	// which cause these fields to be emitted as non-required.
	if c.Advanced.TimeoutSeconds == 0 {
		c.Advanced.TimeoutSeconds = 10
	}
	if c.Advanced.ClientID == "" {
		c.Advanced.ClientID = defaultClientID
	}
}

func (c *Config) timeout() time.Duration {
	return time.Duration(c.Advanced.TimeoutSeconds) * time.Second
}

// ConfigSchema returns the JSON schema of Config, for embedding
// applications that render configuration forms.
func ConfigSchema() (json.RawMessage, error) {
	var bs, err = schemagen.GenerateSchema("MaxScale CDC Connection", &Config{}).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("generating config schema: %w", err)
	}
	return json.RawMessage(bs), nil
}
