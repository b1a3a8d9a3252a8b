package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/havmedia/aura/internal/config"
)

func testDB() config.DatabaseConfig {
	return config.DatabaseConfig{Name: "postgres", User: "postgres", Password: "master-secret"}
}

func createTestManager(t *testing.T) *config.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "setup.yml")
	manager, err := config.Create("18.0", []string{"odoo.example.com"}, testDB(), path)
	assert.NoError(t, err)
	return manager
}

func TestCreateAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.yml")

	_, err := config.Create("18.0", []string{"odoo.example.com", "erp.example.com"}, testDB(), path)
	assert.NoError(t, err)

	manager, err := config.NewManager(path)
	assert.NoError(t, err)
	assert.Equal(t, "18.0", manager.Version())
	assert.Equal(t, []string{"odoo.example.com", "erp.example.com"}, manager.Hosts())
	assert.Equal(t, testDB(), manager.DB())
	assert.Empty(t, manager.Odoos())
}

func TestCreateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.yml")

	_, err := config.Create("18.0", []string{"odoo.example.com"}, testDB(), path)
	assert.NoError(t, err)
	before, err := os.ReadFile(path)
	assert.NoError(t, err)

	_, err = config.Create("18.0", []string{"other.example.com"}, testDB(), path)
	_, ok := err.(*config.AlreadyExistsError)
	assert.True(t, ok)

	after, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestNewManagerMissingFile(t *testing.T) {
	_, err := config.NewManager(filepath.Join(t.TempDir(), "setup.yml"))
	_, ok := err.(*config.NotFoundError)
	assert.True(t, ok)
}

func TestHostOperations(t *testing.T) {
	manager := createTestManager(t)

	assert.NoError(t, manager.AddHost("erp.example.com"))
	assert.NoError(t, manager.AddHost("erp.example.com"))
	assert.Equal(t, []string{"odoo.example.com", "erp.example.com"}, manager.Hosts())

	assert.NoError(t, manager.RemoveHost("unknown.example.com"))
	assert.Equal(t, []string{"odoo.example.com", "erp.example.com"}, manager.Hosts())

	assert.NoError(t, manager.RemoveHost("odoo.example.com"))
	assert.Equal(t, []string{"erp.example.com"}, manager.Hosts())

	err := manager.RemoveHost("erp.example.com")
	assert.Error(t, err)
	assert.Equal(t, []string{"erp.example.com"}, manager.Hosts())
}

func TestSetHostsRequiresOne(t *testing.T) {
	manager := createTestManager(t)

	assert.Error(t, manager.SetHosts([]string{}))
	assert.NoError(t, manager.SetHosts([]string{"new.example.com"}))
	assert.Equal(t, []string{"new.example.com"}, manager.Hosts())
}

func TestOdooOperations(t *testing.T) {
	manager := createTestManager(t)

	live := config.OdooConfig{Name: "live", DBPassword: "live-secret"}
	assert.NoError(t, manager.AddOdoo(live))

	err := manager.AddOdoo(config.OdooConfig{Name: "live", DBPassword: "other"})
	_, ok := err.(*config.OdooAlreadyExistsError)
	assert.True(t, ok)

	got, err := manager.GetOdoo("live")
	assert.NoError(t, err)
	assert.Equal(t, live, got)

	_, err = manager.GetOdoo("staging")
	assert.Error(t, err)

	assert.NoError(t, manager.RemoveOdoo("live"))
	assert.Error(t, manager.RemoveOdoo("live"))
}

func TestOdooProtectedNames(t *testing.T) {
	manager := createTestManager(t)

	for _, name := range []string{"db", "traefik", "whoami"} {
		assert.Error(t, manager.AddOdoo(config.OdooConfig{Name: name}))
		assert.Error(t, manager.RemoveOdoo(name))
	}
	assert.Empty(t, manager.Odoos())
}

func TestOdooPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.yml")

	manager, err := config.Create("18.0", []string{"odoo.example.com"}, testDB(), path)
	assert.NoError(t, err)
	assert.NoError(t, manager.AddOdoo(config.OdooConfig{Name: "live", DBPassword: "live-secret"}))

	reloaded, err := config.NewManager(path)
	assert.NoError(t, err)
	odoos := reloaded.Odoos()
	assert.Len(t, odoos, 1)
	assert.Equal(t, "live", odoos[0].Name)
	assert.Equal(t, "live-secret", odoos[0].DBPassword)
}

func TestConfigMapRoundTrips(t *testing.T) {
	db := testDB()
	assert.Equal(t, db, config.DatabaseConfigFromMap(db.ToMap()))

	odoo := config.OdooConfig{Name: "live", DBPassword: "live-secret"}
	assert.Equal(t, odoo, config.OdooConfigFromMap(odoo.ToMap()))
}
