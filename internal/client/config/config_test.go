package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/client/media"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:3000", c.ServerURL)
	assert.Equal(t, "http://127.0.0.1:8000/api", c.AIURL)
	assert.Equal(t, "adam", c.AIAgent)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, ".greenhub", c.DataDir)
	assert.Equal(t, "greenhub.db", c.DBFile)
	assert.Equal(t, "http://127.0.0.1:3000", c.RealtimeOrigin())
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load(nil, "", map[string]string{})
	require.NoError(t, err)
	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{
		"server_url": "https://api.example.com",
		"request_timeout": "3s",
		"extra_headers": {"ngrok-skip-browser-warning": "true"},
		"media": {"bucket": "greenhub", "region": "eu-west-1"}
	}`)

	cfg, err := Load([]string{"-config", path}, "", map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.ServerURL)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.AIURL, "absent keys keep defaults")
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, map[string]string{"ngrok-skip-browser-warning": "true"}, cfg.ExtraHeaders)
	assert.Equal(t, media.Config{Bucket: "greenhub", Region: "eu-west-1"}, cfg.Media)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeTemp(t, "cfg.yaml", `
server_url: https://yaml.example.com
ai_agent: eve
request_timeout: 2000000000
realtime_url: https://ws.example.com
`)

	cfg, err := Load([]string{"-c", path}, "", map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "https://yaml.example.com", cfg.ServerURL)
	assert.Equal(t, "eve", cfg.AIAgent)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://ws.example.com", cfg.RealtimeOrigin())
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "missing.json")}, "", map[string]string{})
	require.Error(t, err)

	bad := writeTemp(t, "bad.json", `{ this is not valid json`)
	_, err = Load([]string{"-c", bad}, "", map[string]string{})
	require.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	cfg, err := Load(nil, "", map[string]string{
		"GREENHUB_SERVER_URL":       "https://env.example.com",
		"GREENHUB_REQUEST_TIMEOUT":  "750ms",
		"GREENHUB_EXTRA_HEADERS":    "ngrok-skip-browser-warning:69420,X-Client:cli",
		"GREENHUB_MEDIA_BUCKET":     "avatars",
		"GREENHUB_MEDIA_PUBLIC_URL": "https://cdn.example.com",
		"SERVER_URL":                "ignored-without-prefix",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, map[string]string{"ngrok-skip-browser-warning": "69420", "X-Client": "cli"}, cfg.ExtraHeaders)
	assert.Equal(t, "avatars", cfg.Media.Bucket)
	assert.Equal(t, "https://cdn.example.com", cfg.Media.PublicURL)
}

func TestLoad_EnvironmentBadValue(t *testing.T) {
	_, err := Load(nil, "", map[string]string{"GREENHUB_REQUEST_TIMEOUT": "soon"})
	require.Error(t, err)
}

func TestLoad_Dotenv(t *testing.T) {
	dotenv := writeTemp(t, ".env", "GREENHUB_AI_AGENT=eve\nGREENHUB_SERVER_URL=https://dotenv.example.com\n")

	cfg, err := Load(nil, dotenv, map[string]string{"GREENHUB_SERVER_URL": "https://real-env.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "eve", cfg.AIAgent)
	assert.Equal(t, "https://real-env.example.com", cfg.ServerURL, "process environment beats .env")

	_, err = Load(nil, filepath.Join(t.TempDir(), "none.env"), map[string]string{})
	require.NoError(t, err, "a missing .env is fine")
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{"server_url": "https://file.example.com", "ai_agent": "file-agent", "log_level": "warn"}`)

	cfg, err := Load(
		[]string{"-c", path, "-a", "https://flag.example.com", "-unknown", "x"},
		"",
		map[string]string{"GREENHUB_SERVER_URL": "https://env.example.com", "GREENHUB_AI_AGENT": "env-agent"},
	)
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", cfg.ServerURL)
	assert.Equal(t, "env-agent", cfg.AIAgent)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected func(*Config)
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "https://x.example.com", "-ai", "https://ai.example.com", "-agent", "eve", "-t", "5s", "-d", "/tmp/gh", "-l", "debug", "-f", "json"},
			expected: func(c *Config) {
				c.ServerURL = "https://x.example.com"
				c.AIURL = "https://ai.example.com"
				c.AIAgent = "eve"
				c.RequestTimeout = 5 * time.Second
				c.DataDir = "/tmp/gh"
				c.LogLevel = "debug"
				c.LogFormat = "json"
			},
		},
		{name: "foreign flags ignored", args: []string{"-x", "1", "-c", "cfg.json"}, expected: func(*Config) {}},
		{name: "bad duration", args: []string{"-t", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.expected(want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func TestValidate(t *testing.T) {
	c := defaults()
	require.NoError(t, c.Validate())

	c.ServerURL = " "
	assert.Error(t, c.Validate())

	c = defaults()
	c.RequestTimeout = -time.Second
	assert.Error(t, c.Validate())
}

func TestDBPath(t *testing.T) {
	c := defaults()
	assert.Equal(t, filepath.Join("/data", "greenhub.db"), c.DBPath("/data"))

	c.DBFile = ":memory:"
	assert.Equal(t, ":memory:", c.DBPath("/data"))

	c.DBFile = "/abs/gh.db"
	assert.Equal(t, "/abs/gh.db", c.DBPath("/data"))
}
