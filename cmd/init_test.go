package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupInitDir(t *testing.T) {
	t.Helper()

	shimDir := t.TempDir()
	script := "#!/bin/sh\nexit 0\n"
	err := os.WriteFile(filepath.Join(shimDir, "docker"), []byte(script), 0755)
	assert.NoError(t, err)
	t.Setenv("PATH", shimDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	wd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestInitWritesDocumentsAndCoreServices(t *testing.T) {
	setupInitDir(t)

	composeManager, configManager, err := stage2Documents([]string{"odoo.example.com"}, "18.0")
	assert.NoError(t, err)
	assert.NoError(t, stage3Services(composeManager, configManager))

	assert.Equal(t, []string{"db", "traefik", "whoami"}, composeManager.ListServices())

	assert.Equal(t, "18.0", configManager.Version())
	assert.Equal(t, []string{"odoo.example.com"}, configManager.Hosts())
	assert.Len(t, configManager.DB().Password, 43)

	odoos := configManager.Odoos()
	assert.Len(t, odoos, 1)
	assert.Equal(t, "live", odoos[0].Name)
	assert.Len(t, odoos[0].DBPassword, 43)

	db, err := composeManager.GetService("db")
	assert.NoError(t, err)
	env := db.ToMap()["db"]["environment"].(map[string]interface{})
	assert.Equal(t, configManager.DB().Password, env["POSTGRES_PASSWORD"])
}

func TestInitRefusesExistingServices(t *testing.T) {
	setupInitDir(t)

	content := "services:\n  web:\n    image: nginx\n"
	assert.NoError(t, os.WriteFile(composeFileName, []byte(content), 0644))

	_, _, err := stage2Documents([]string{"odoo.example.com"}, "18.0")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "services already exist")
	assert.NoFileExists(t, setupFileName)
}

func TestInitRefusesExistingSetupFile(t *testing.T) {
	setupInitDir(t)

	assert.NoError(t, os.WriteFile(setupFileName, []byte("version: 18.0\n"), 0644))

	_, _, err := stage2Documents([]string{"odoo.example.com"}, "18.0")
	assert.Error(t, err)
}
