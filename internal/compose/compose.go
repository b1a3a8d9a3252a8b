/*
Copyright © 2025 Jan-Phillip Oesterling <jpo@hav.media>

Licensed under the GNU GPL License, Version 3.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
https://www.gnu.org/licenses/gpl-3.0.en.html

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package compose

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/havmedia/aura/internal/config"
)

// Manager is the sole reader and writer of the compose document and the
// only place that invokes the compose CLI. The document is held as a yaml
// node tree so service order survives every rewrite.
type Manager struct {
	Path string

	composeCommand []string
	doc            *yaml.Node
	out            io.Writer
}

// NewManager binds a manager to the compose file at path, creating the file
// with an empty services mapping when it does not exist yet.
func NewManager(path string) (*Manager, error) {
	m := &Manager{Path: path, out: os.Stdout}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		m.doc = emptyDocument()
		if err := m.save(); err != nil {
			return nil, err
		}
	}

	command, err := detectComposeCommand()
	if err != nil {
		return nil, err
	}
	m.composeCommand = command

	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetOutput redirects the output of non-captured compose commands, which
// otherwise goes to stdout.
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// detectComposeCommand probes the plugin form first and falls back to the
// legacy standalone binary.
func detectComposeCommand() ([]string, error) {
	if err := exec.Command("docker", "compose", "version").Run(); err == nil {
		return []string{"docker", "compose"}, nil
	}
	if err := exec.Command("docker-compose", "--version").Run(); err == nil {
		return []string{"docker-compose"}, nil
	}
	return nil, &DockerNotFoundError{}
}

func emptyDocument() *yaml.Node {
	return &yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{{
			Kind: yaml.MappingNode,
			Tag:  "!!map",
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: "services"},
				{Kind: yaml.MappingNode, Tag: "!!map"},
			},
		}},
	}
}

func (m *Manager) load() error {
	content, err := os.ReadFile(m.Path)
	if err != nil {
		return &FilePermissionError{Path: m.Path, Op: "read", Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		m.doc = emptyDocument()
		return nil
	}
	m.doc = &doc
	return nil
}

func (m *Manager) save() error {
	content, err := yaml.Marshal(m.doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.Path, content, 0644); err != nil {
		return &FilePermissionError{Path: m.Path, Op: "write", Err: err}
	}
	return nil
}

// servicesNode returns the mapping under the top-level services key,
// creating it when the document lacks one.
func (m *Manager) servicesNode() *yaml.Node {
	root := m.doc.Content[0]
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == "services" {
			node := root.Content[i+1]
			if node.Kind != yaml.MappingNode {
				node.Kind = yaml.MappingNode
				node.Tag = "!!map"
				node.Content = nil
			}
			return node
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "services"},
		&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
	)
	return root.Content[len(root.Content)-1]
}

// findService returns the index of the service key inside the services
// mapping, or -1.
func (m *Manager) findService(name string) int {
	services := m.servicesNode()
	for i := 0; i < len(services.Content)-1; i += 2 {
		if services.Content[i].Value == name {
			return i
		}
	}
	return -1
}

// AddService appends a new service entry and persists the document.
func (m *Manager) AddService(svc *Service) error {
	if m.findService(svc.Name()) != -1 {
		return &ServiceAlreadyExistsError{Name: svc.Name()}
	}

	node, err := svc.toNode()
	if err != nil {
		return err
	}
	services := m.servicesNode()
	services.Content = append(services.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: svc.Name()},
		node,
	)
	return m.save()
}

// UpdateService overwrites an existing service entry and persists the
// document.
func (m *Manager) UpdateService(svc *Service) error {
	idx := m.findService(svc.Name())
	if idx == -1 {
		return &ServiceNotFoundError{Name: svc.Name()}
	}

	node, err := svc.toNode()
	if err != nil {
		return err
	}
	m.servicesNode().Content[idx+1] = node
	return m.save()
}

// RemoveService deletes a service entry and persists the document.
// Infrastructure services are refused.
func (m *Manager) RemoveService(name string) error {
	idx := m.findService(name)
	if idx == -1 {
		return &ServiceNotFoundError{Name: name}
	}
	if config.SecureServices[name] {
		return &ProtectedServiceError{Name: name}
	}

	services := m.servicesNode()
	services.Content = append(services.Content[:idx], services.Content[idx+2:]...)
	return m.save()
}

// GetService rebuilds the named service from the document, keeping the
// stored key order so a later UpdateService does not reshuffle the entry.
func (m *Manager) GetService(name string) (*Service, error) {
	idx := m.findService(name)
	if idx == -1 {
		return nil, &ServiceNotFoundError{Name: name}
	}

	entry := m.servicesNode().Content[idx+1]
	keys := make([]string, 0, len(entry.Content)/2)
	cfg := make(map[string]interface{}, len(entry.Content)/2)
	for i := 0; i < len(entry.Content)-1; i += 2 {
		var value interface{}
		if err := entry.Content[i+1].Decode(&value); err != nil {
			return nil, err
		}
		keys = append(keys, entry.Content[i].Value)
		cfg[entry.Content[i].Value] = value
	}
	return fromOrderedMap(name, keys, cfg)
}

// ListServices returns every service name in document order.
func (m *Manager) ListServices() []string {
	services := m.servicesNode()
	names := make([]string, 0, len(services.Content)/2)
	for i := 0; i < len(services.Content)-1; i += 2 {
		names = append(names, services.Content[i].Value)
	}
	return names
}

// HasService reports whether the named service is present.
func (m *Manager) HasService(name string) bool {
	return m.findService(name) != -1
}

// runCompose executes a compose subcommand against the document, optionally
// scoped to one service. With capture the child's stdout is returned.
func (m *Manager) runCompose(args []string, service string, capture bool) (string, error) {
	cmdline := append([]string{}, m.composeCommand...)
	cmdline = append(cmdline, "-f", m.Path)
	cmdline = append(cmdline, args...)
	if service != "" {
		cmdline = append(cmdline, service)
	}

	cmd := exec.Command(cmdline[0], cmdline[1:]...)
	if capture {
		output, err := cmd.Output()
		if err != nil {
			return "", &CommandExecutionError{Command: strings.Join(cmdline, " "), Err: err}
		}
		return string(output), nil
	}

	cmd.Stdout = m.out
	cmd.Stderr = m.out
	if err := cmd.Run(); err != nil {
		return "", &CommandExecutionError{Command: strings.Join(cmdline, " "), Err: err}
	}
	return "", nil
}

// Up starts services, all of them when service is empty.
func (m *Manager) Up(service string, detach bool) error {
	args := []string{"up"}
	if detach {
		args = append(args, "-d")
	}
	_, err := m.runCompose(args, service, false)
	return err
}

// Down stops and removes all services.
func (m *Manager) Down() error {
	_, err := m.runCompose([]string{"down"}, "", false)
	return err
}

// Restart restarts services, all of them when service is empty.
func (m *Manager) Restart(service string) error {
	_, err := m.runCompose([]string{"restart"}, service, false)
	return err
}

// Build builds images, all of them when service is empty.
func (m *Manager) Build(service string) error {
	_, err := m.runCompose([]string{"build"}, service, false)
	return err
}

// Ps lists containers, all of them when service is empty.
func (m *Manager) Ps(service string) error {
	_, err := m.runCompose([]string{"ps"}, service, false)
	return err
}

// Run runs a one-off container for the service.
func (m *Manager) Run(service string) error {
	_, err := m.runCompose([]string{"run"}, service, false)
	return err
}

// Exec runs a command inside a running service container.
func (m *Manager) Exec(service string, command string) error {
	_, err := m.runCompose([]string{"exec", service, command}, "", false)
	return err
}

// Logs returns the captured log output, scoped to service when non-empty.
func (m *Manager) Logs(service string) (string, error) {
	return m.runCompose([]string{"logs"}, service, true)
}
