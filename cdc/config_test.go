package cdc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func validConfig() *Config {
	var cfg = &Config{Address: "127.0.0.1:4001"}
	cfg.Login.User = "maxscale"
	cfg.Login.Password = "maxscale"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	t.Run("missing address", func(t *testing.T) {
		var cfg = validConfig()
		cfg.Address = ""
		require.ErrorContains(t, cfg.Validate(), "missing 'address'")
	})
	t.Run("missing user", func(t *testing.T) {
		var cfg = validConfig()
		cfg.Login.User = ""
		require.ErrorContains(t, cfg.Validate(), "missing 'user'")
	})
	t.Run("missing password", func(t *testing.T) {
		var cfg = validConfig()
		cfg.Login.Password = ""
		require.ErrorContains(t, cfg.Validate(), "missing 'password'")
	})
	t.Run("address without port", func(t *testing.T) {
		var cfg = validConfig()
		cfg.Address = "localhost"
		var addrErr *AddressError
		require.ErrorAs(t, cfg.Validate(), &addrErr)
	})
	t.Run("negative timeout", func(t *testing.T) {
		var cfg = validConfig()
		cfg.Advanced.TimeoutSeconds = -1
		require.ErrorContains(t, cfg.Validate(), "timeout must not be negative")
	})
}

func TestConfigDefaults(t *testing.T) {
	var cfg = validConfig()
	cfg.SetDefaults()
	require.Equal(t, 10, cfg.Advanced.TimeoutSeconds)
	require.Equal(t, 10*time.Second, cfg.timeout())
	require.Equal(t, "CDC_CONNECTOR-1.0.0", cfg.Advanced.ClientID)

	// Explicit settings survive.
	cfg.Advanced.TimeoutSeconds = 3
	cfg.Advanced.ClientID = "custom-client"
	cfg.SetDefaults()
	require.Equal(t, 3, cfg.Advanced.TimeoutSeconds)
	require.Equal(t, "custom-client", cfg.Advanced.ClientID)
}

func TestConfigSchema(t *testing.T) {
	var schema, err = ConfigSchema()
	require.NoError(t, err)

	var js = gjson.ParseBytes(schema)
	require.Equal(t, "MaxScale CDC Connection", js.Get("title").String())
	require.True(t, js.Get("properties.address").Exists())
	require.Equal(t, gjson.True, js.Get("properties.login.properties.password.secret").Type)
	require.Equal(t, gjson.True, js.Get("properties.advanced.advanced").Type)
}
