package compose_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/havmedia/aura/internal/compose"
)

// installDockerShim puts a fake docker binary first on PATH. It exits 0 for
// every invocation and echoes its arguments, so command detection succeeds
// and captured output is inspectable.
func installDockerShim(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	script := "#!/bin/sh\necho \"docker $@\"\n"
	err := os.WriteFile(filepath.Join(dir, "docker"), []byte(script), 0755)
	assert.NoError(t, err)
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func newTestManager(t *testing.T) *compose.Manager {
	t.Helper()
	installDockerShim(t)
	manager, err := compose.NewManager(filepath.Join(t.TempDir(), "docker-compose.yml"))
	assert.NoError(t, err)
	return manager
}

func TestNewManagerCreatesFile(t *testing.T) {
	installDockerShim(t)
	path := filepath.Join(t.TempDir(), "docker-compose.yml")

	manager, err := compose.NewManager(path)
	assert.NoError(t, err)
	assert.FileExists(t, path)
	assert.Empty(t, manager.ListServices())
}

func TestNewManagerFailsWithoutDocker(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := compose.NewManager(filepath.Join(t.TempDir(), "docker-compose.yml"))
	assert.Error(t, err)
	_, ok := err.(*compose.DockerNotFoundError)
	assert.True(t, ok)
}

func TestAddAndGetService(t *testing.T) {
	manager := newTestManager(t)

	svc := compose.NewService("web").
		SetImage("nginx:alpine").
		SetPorts([]string{"8080:80"})
	assert.NoError(t, manager.AddService(svc))

	got, err := manager.GetService("web")
	assert.NoError(t, err)
	assert.Equal(t, "web", got.Name())
	assert.Equal(t, "nginx:alpine", got.ToMap()["web"]["image"])
}

func TestAddDuplicateServiceLeavesFileUnchanged(t *testing.T) {
	manager := newTestManager(t)

	assert.NoError(t, manager.AddService(compose.NewService("web").SetImage("nginx")))
	before, err := os.ReadFile(manager.Path)
	assert.NoError(t, err)

	err = manager.AddService(compose.NewService("web").SetImage("httpd"))
	_, ok := err.(*compose.ServiceAlreadyExistsError)
	assert.True(t, ok)

	after, err := os.ReadFile(manager.Path)
	assert.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateService(t *testing.T) {
	manager := newTestManager(t)

	assert.NoError(t, manager.AddService(compose.NewService("web").SetImage("nginx:1.25")))
	assert.NoError(t, manager.UpdateService(compose.NewService("web").SetImage("nginx:1.27")))

	got, err := manager.GetService("web")
	assert.NoError(t, err)
	assert.Equal(t, "nginx:1.27", got.ToMap()["web"]["image"])

	err = manager.UpdateService(compose.NewService("ghost").SetImage("nginx"))
	_, ok := err.(*compose.ServiceNotFoundError)
	assert.True(t, ok)
}

func TestRemoveService(t *testing.T) {
	manager := newTestManager(t)

	assert.NoError(t, manager.AddService(compose.NewService("web").SetImage("nginx")))
	assert.NoError(t, manager.RemoveService("web"))
	assert.False(t, manager.HasService("web"))

	err := manager.RemoveService("web")
	_, ok := err.(*compose.ServiceNotFoundError)
	assert.True(t, ok)
}

func TestRemoveProtectedService(t *testing.T) {
	manager := newTestManager(t)

	assert.NoError(t, manager.AddService(compose.NewService("db").SetImage("postgres:15")))

	err := manager.RemoveService("db")
	_, ok := err.(*compose.ProtectedServiceError)
	assert.True(t, ok)
	assert.True(t, manager.HasService("db"))
}

func TestServiceOrderSurvivesReload(t *testing.T) {
	installDockerShim(t)
	path := filepath.Join(t.TempDir(), "docker-compose.yml")

	manager, err := compose.NewManager(path)
	assert.NoError(t, err)
	for _, name := range []string{"zulu", "alpha", "mike"} {
		assert.NoError(t, manager.AddService(compose.NewService(name).SetImage("nginx")))
	}
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, manager.ListServices())

	reloaded, err := compose.NewManager(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, reloaded.ListServices())
}

func TestGetServiceKeepsLabelsAppendable(t *testing.T) {
	manager := newTestManager(t)

	svc := compose.NewService("web").
		SetImage("nginx").
		SetLabels([]string{"existing.label=true"})
	assert.NoError(t, manager.AddService(svc))

	got, err := manager.GetService("web")
	assert.NoError(t, err)
	got.AddTraefik("web.example.com", 8080)
	assert.NoError(t, manager.UpdateService(got))

	reloaded, err := manager.GetService("web")
	assert.NoError(t, err)
	labels := reloaded.ToMap()["web"]["labels"].([]string)
	assert.Len(t, labels, 5)
	assert.Equal(t, "existing.label=true", labels[0])
}

func TestUpdateServiceKeepsKeyOrder(t *testing.T) {
	installDockerShim(t)
	path := filepath.Join(t.TempDir(), "docker-compose.yml")

	content := "services:\n  web:\n    restart: always\n    image: nginx\n    ports:\n      - 8080:80\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	manager, err := compose.NewManager(path)
	assert.NoError(t, err)

	got, err := manager.GetService("web")
	assert.NoError(t, err)
	assert.NoError(t, manager.UpdateService(got))

	written, err := os.ReadFile(path)
	assert.NoError(t, err)
	text := string(written)
	assert.Less(t, strings.Index(text, "restart:"), strings.Index(text, "image:"))
	assert.Less(t, strings.Index(text, "image:"), strings.Index(text, "ports:"))
}

func TestGetServiceRejectsCorruptEntry(t *testing.T) {
	installDockerShim(t)
	path := filepath.Join(t.TempDir(), "docker-compose.yml")

	content := "services:\n  web:\n    image: nginx\n    bogus_key: true\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	manager, err := compose.NewManager(path)
	assert.NoError(t, err)

	_, err = manager.GetService("web")
	invalidErr, ok := err.(*compose.InvalidKeysError)
	assert.True(t, ok)
	assert.Equal(t, []string{"bogus_key"}, invalidErr.Keys)
}

func TestLogsCapturesOutput(t *testing.T) {
	manager := newTestManager(t)

	output, err := manager.Logs("web")
	assert.NoError(t, err)
	assert.Contains(t, output, "logs web")
}

func TestLogsWithoutServiceCoversAll(t *testing.T) {
	manager := newTestManager(t)

	output, err := manager.Logs("")
	assert.NoError(t, err)
	assert.Contains(t, output, "logs")
	assert.NotContains(t, output, "logs web")
}
