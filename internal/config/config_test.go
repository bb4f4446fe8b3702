package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "inventory-ledger", cfg.App.Name)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10, cfg.Report.LowStockThreshold)
	assert.Equal(t, 10, cfg.Report.TopProducts)
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.Equal(t,
		"host=localhost user=postgres password= dbname=inventory port=5432 sslmode=disable TimeZone=UTC",
		cfg.Database.ConnectionString())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("INV_DATABASE_DRIVER", "sqlite")
	t.Setenv("INV_DATABASE_DSN", "file:test.db")
	t.Setenv("INV_REPORT_LOW_STOCK_THRESHOLD", "5")
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.ConnectionString())
	assert.Equal(t, 5, cfg.Report.LowStockThreshold)
	assert.Equal(t, "8081", cfg.App.Port)
}

func TestLoad_DatabaseURL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/inv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/inv", cfg.Database.Store().DSN)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load()
	require.NoError(t, err)

	t.Run("unknown driver", func(t *testing.T) {
		cfg := *base
		cfg.Database.Driver = "mongodb"
		assert.Error(t, cfg.Validate())
	})

	t.Run("default secret in production", func(t *testing.T) {
		cfg := *base
		cfg.App.Env = "production"
		assert.Error(t, cfg.Validate())

		cfg.JWT.Secret = "a-real-secret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad pagination", func(t *testing.T) {
		cfg := *base
		cfg.Pagination.DefaultLimit = 0
		assert.Error(t, cfg.Validate())
	})
}
