package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoAbsensi/GoAbsensi/internal/config"
)

func testConfig() *config.Config {
	cfg := new(config.Config)
	cfg.DB.User = "absensi"
	cfg.DB.Password = "p@ss"
	cfg.DB.Host = "db"
	cfg.DB.Name = "absensi"

	return cfg
}

func TestCreate(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Port = 3306
	cfg.DB.Extras = "parseTime=true"

	assert.Equal(t, "absensi:p@ss@tcp(db:3306)/absensi?parseTime=true", Create(cfg))
}

func TestPostgres(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Port = 5432
	cfg.DB.SSLMode = "disable"

	assert.Equal(t, "postgres://absensi:p%40ss@db:5432/absensi?sslmode=disable", Postgres(cfg))

	cfg.DB.Extras = "sslmode=require&application_name=absensi"
	assert.Equal(t, "postgres://absensi:p%40ss@db:5432/absensi?sslmode=require&application_name=absensi", Postgres(cfg))
}
