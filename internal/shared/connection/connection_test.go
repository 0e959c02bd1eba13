package connection_test

import (
	"path/filepath"
	"testing"

	"go-sirh/internal/config"
	"go-sirh/internal/shared/connection"

	"github.com/stretchr/testify/assert"
)

func TestDialector(t *testing.T) {
	cfg := &config.Config{DB: config.DBConfig{Host: "db", User: "u", Password: "p", Name: "sirh", Port: "5432", SSLMode: "disable"}}

	for _, driver := range []string{"postgres", "mysql"} {
		cfg.StoreDriver = driver
		d, err := connection.Dialector(cfg)
		assert.NoError(t, err)
		assert.Equal(t, driver, d.Name())
	}

	cfg.StoreDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "sirh.db")
	d, err := connection.Dialector(cfg)
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	cfg.StoreDriver = "memory"
	_, err = connection.Dialector(cfg)
	assert.Error(t, err)
}
