package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"taskflow-app/taskflow/config"
)

func TestPostgresDSN(t *testing.T) {
	cfg := config.Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "svc",
		DBPassword: "hunter2",
		DBName:     "taskflow",
	}

	dsn := PostgresDSN(cfg)
	assert.Equal(t, "host=db.internal port=5433 user=svc password=hunter2 dbname=taskflow sslmode=disable", dsn)
}

func TestDialectorSelection(t *testing.T) {
	postgresDialector := Dialector(config.Config{DBDriver: "postgres"})
	assert.Equal(t, "postgres", postgresDialector.Name())

	sqliteDialector := Dialector(config.Config{DBDriver: "sqlite", DBPath: "test.db"})
	assert.Equal(t, "sqlite", sqliteDialector.Name())
}
