package cmd

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/havmedia/aura/internal/config"
)

func TestDatabaseManagerUsesConfiguredSettings(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("dbHost", "db.internal")
	viper.Set("dbPort", 5433)
	viper.Set("dbUser", "admin")
	viper.Set("dbPassword", "flag-secret")
	viper.Set("dbName", "live")

	m := databaseManager()
	assert.Equal(t, "db.internal", m.Host)
	assert.Equal(t, 5433, m.Port)
	assert.Equal(t, "admin", m.User)
	assert.Equal(t, "flag-secret", m.Password)
	assert.Equal(t, "live", m.Database)
}

func TestDatabaseManagerFallsBackToSetupCredentials(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	wd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = config.Create("18.0", []string{"example.com"}, config.DatabaseConfig{
		Name:     "postgres",
		User:     "postgres",
		Password: "master-secret",
	}, setupFileName)
	assert.NoError(t, err)

	m := databaseManager()
	assert.Equal(t, "localhost", m.Host)
	assert.Equal(t, 5432, m.Port)
	assert.Equal(t, "postgres", m.User)
	assert.Equal(t, "master-secret", m.Password)
	assert.Equal(t, "postgres", m.Database)
}

func TestDatabaseManagerDefaultsWithoutSetupFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	wd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	m := databaseManager()
	assert.Equal(t, "postgres", m.User)
	assert.Equal(t, "", m.Password)
}
