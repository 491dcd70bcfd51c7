package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "point-events", cfg.Kafka.Topic)
	assert.Equal(t, 100, cfg.Poller.Batch)
}

func TestParse(t *testing.T) {
	var tests = []struct {
		name    string
		yaml    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "postgres with password from env",
			yaml: "store:\n  driver: postgres\npostgres:\n  dsn: host=db\n",
			env:  map[string]string{"POSTGRES_PASSWORD": "secret"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "host=db password=secret", cfg.Postgres.DSN)
			},
		},
		{
			name: "postgres url dsn with password from env",
			yaml: "store:\n  driver: postgres\npostgres:\n  dsn: postgres://point@db:5432/point?sslmode=disable\n",
			env:  map[string]string{"POSTGRES_PASSWORD": "s3cr/t"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://point:s3cr%2Ft@db:5432/point?sslmode=disable", cfg.Postgres.DSN)
			},
		},
		{
			name: "postgres url dsn replaces existing password",
			yaml: "store:\n  driver: postgres\npostgres:\n  dsn: postgresql://point:old@db/point\n",
			env:  map[string]string{"POSTGRES_PASSWORD": "new"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgresql://point:new@db/point", cfg.Postgres.DSN)
			},
		},
		{
			name:    "password from env does not make up a dsn",
			yaml:    "store:\n  driver: postgres\n",
			env:     map[string]string{"POSTGRES_PASSWORD": "secret"},
			wantErr: true,
		},
		{
			name: "redis password from env",
			yaml: "redis:\n  enabled: true\n  addr: localhost:6379\n  ttl: 30s\n",
			env:  map[string]string{"REDIS_PASSWORD": "pw"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Redis.Enabled)
				assert.Equal(t, "pw", cfg.Redis.Password)
				assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
			},
		},
		{
			name:    "postgres without dsn",
			yaml:    "store:\n  driver: postgres\n",
			env:     map[string]string{"POSTGRES_PASSWORD": ""},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			yaml:    "store:\n  driver: mongo\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			yaml:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
