package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staybae/staybae-api/pkg/logging"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Mongo.Path = "@cluster0.example.net/staybae"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_InvalidPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid server port")
		})
	}
}

func TestConfig_Validate_MissingMongoPath(t *testing.T) {
	cfg := validConfig()
	cfg.Mongo.Path = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo path")
}

func TestConfig_Validate_InvalidLogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"

	assert.Error(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PORT", "4000")
	t.Setenv("MONGO_USER", "staybae")
	t.Setenv("MONGO_PASSWORD", "s3cret")
	t.Setenv("MONGO_PATH", "@cluster0.example.net/staybae")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "staybae", cfg.Mongo.User)
	assert.Equal(t, "s3cret", cfg.Mongo.Password)
	assert.Equal(t, "@cluster0.example.net/staybae", cfg.Mongo.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_DevelopmentDefaultsToTextLogs(t *testing.T) {
	t.Setenv("NODE_ENV", EnvDevelopment)
	t.Setenv("MONGO_PATH", "@localhost:27017/staybae")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  host: 127.0.0.1
  port: 9000
mongo:
  user: fileuser
  path: "@file.example.net/staybae"
logging:
  level: warn
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("MONGO_USER", "envuser")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "envuser", cfg.Mongo.User, "environment overrides file")
	assert.Equal(t, "@file.example.net/staybae", cfg.Mongo.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("MONGO_PATH", "@cluster0.example.net/staybae")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Address())
	assert.Equal(t, 30, cfg.Mongo.ConnectTimeout)
}

func TestDefaultConfig_Logging(t *testing.T) {
	assert.Equal(t, logging.DefaultConfig(), logging.Config(defaultConfig().Logging))
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 5000, "127.0.0.1:5000"},
		{"", 8080, ":8080"},
		{"::1", 443, "[::1]:443"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ServerConfig{Host: tt.host, Port: tt.port}.Address())
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_InvalidPortFromEnvironment(t *testing.T) {
	t.Setenv("MONGO_PATH", "@cluster0.example.net/staybae")
	t.Setenv("PORT", "not-a-number")

	_, err := Load("")
	assert.Error(t, err)
}
