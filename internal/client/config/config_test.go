package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// noEnvFile points --env-file at a path that does not exist.
func noEnvFile(t *testing.T) string {
	return "--env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, 30*time.Second, c.ConnectTimeout)
	assert.Equal(t, 30*time.Second, c.SocketTimeout)
	assert.Equal(t, 60*time.Second, c.RequestTimeout)
	assert.Equal(t, DefaultDatabasePath(), c.DatabasePath)
	assert.Empty(t, c.Endpoint)
	assert.Empty(t, c.SecretKey)
}

func TestDefaultDatabasePath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".reportsviewer", "settings.db"), DefaultDatabasePath())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load(viper.New(), newFlags(t, noEnvFile(t)))
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	if diff := cmp.Diff(&want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NilFlagSet(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"log_level: warn\nlog_format: json\nsocket_timeout: 5s\nendpoint: https://file.example\n",
	), 0o600))

	t.Setenv("REPORTS_LOG_LEVEL", "error")
	t.Setenv("REPORTS_SECRET_KEY", "from-env")

	cfg, err := Load(viper.New(), newFlags(t,
		noEnvFile(t),
		"--config="+file,
		"--socket-timeout=7s",
	))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel, "env beats file")
	assert.Equal(t, "json", cfg.LogFormat, "file beats default")
	assert.Equal(t, 7*time.Second, cfg.SocketTimeout, "flag beats file")
	assert.Equal(t, "https://file.example", cfg.Endpoint)
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("REPORTS_LOG_LEVEL", "error")

	cfg, err := Load(viper.New(), newFlags(t, noEnvFile(t), "--log-level=debug", "--db=/tmp/x.db"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
}

func TestLoad_Dotenv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"REPORTS_ENDPOINT=https://dotenv.example\nREPORTS_REQUEST_TIMEOUT=90s\n",
	), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("REPORTS_ENDPOINT")
		_ = os.Unsetenv("REPORTS_REQUEST_TIMEOUT")
	})

	cfg, err := Load(viper.New(), newFlags(t, "--env-file="+envFile))
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.example", cfg.Endpoint)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), newFlags(t, noEnvFile(t), "--config=/does/not/exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}

	c := base()
	require.NoError(t, c.Validate())

	c = base()
	c.LogFormat = "xml"
	assert.ErrorContains(t, c.Validate(), "log_format")

	c = base()
	c.RequestTimeout = 0
	assert.ErrorContains(t, c.Validate(), "request_timeout")

	c = base()
	c.DatabasePath = " "
	assert.ErrorContains(t, c.Validate(), "db_path")
}
