package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starbase-io/roster/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "roster",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "roster",
	}
	assert.Equal(t,
		"roster:s3cret@tcp(db.internal:3306)/roster?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSN_NoPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "roster",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "roster",
	}
	assert.Equal(t,
		"roster@tcp(localhost:3306)/roster?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
