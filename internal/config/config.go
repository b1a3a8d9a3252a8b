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
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecureServices are the infrastructure services created by `aura init`.
// They can never be added or removed as environments.
var SecureServices = map[string]bool{
	"db":      true,
	"traefik": true,
	"whoami":  true,
}

// DatabaseConfig holds the master credentials of the shared postgres server.
type DatabaseConfig struct {
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// ToMap returns the yaml shape of the config as a plain map.
func (c DatabaseConfig) ToMap() map[string]string {
	return map[string]string{
		"name":     c.Name,
		"user":     c.User,
		"password": c.Password,
	}
}

// DatabaseConfigFromMap rebuilds a DatabaseConfig from its stored mapping.
func DatabaseConfigFromMap(m map[string]string) DatabaseConfig {
	return DatabaseConfig{
		Name:     m["name"],
		User:     m["user"],
		Password: m["password"],
	}
}

// OdooConfig is the stored record of one logical Odoo environment.
type OdooConfig struct {
	Name       string `yaml:"name"`
	DBPassword string `yaml:"db_password"`
}

// ToMap returns the yaml shape of the record as a plain map.
func (c OdooConfig) ToMap() map[string]string {
	return map[string]string{
		"name":        c.Name,
		"db_password": c.DBPassword,
	}
}

// OdooConfigFromMap rebuilds an OdooConfig from its stored mapping.
func OdooConfigFromMap(m map[string]string) OdooConfig {
	return OdooConfig{
		Name:       m["name"],
		DBPassword: m["db_password"],
	}
}

type document struct {
	Version  string         `yaml:"version"`
	Hosts    []string       `yaml:"hosts"`
	DB       DatabaseConfig `yaml:"db"`
	Services []OdooConfig   `yaml:"services"`
}

// Manager is the sole reader and writer of the setup document. Every
// mutation rewrites the whole file.
type Manager struct {
	Path string

	doc document
}

// Create writes a fresh setup document and returns a manager bound to it.
// It refuses to overwrite an existing file.
func Create(version string, hosts []string, db DatabaseConfig, path string) (*Manager, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, &AlreadyExistsError{Path: path}
	}

	m := &Manager{
		Path: path,
		doc: document{
			Version:  version,
			Hosts:    hosts,
			DB:       db,
			Services: []OdooConfig{},
		},
	}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewManager loads an existing setup document from path.
func NewManager(path string) (*Manager, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &NotFoundError{Path: path}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &PermissionError{Path: path, Op: "read", Err: err}
	}

	m := &Manager{Path: path}
	if err := yaml.Unmarshal(content, &m.doc); err != nil {
		return nil, fmt.Errorf("unable to parse setup document %s: %w", path, err)
	}
	return m, nil
}

func (m *Manager) save() error {
	content, err := yaml.Marshal(&m.doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.Path, content, 0644); err != nil {
		return &PermissionError{Path: m.Path, Op: "write", Err: err}
	}
	return nil
}

// Version returns the Odoo version the setup was initialized with.
func (m *Manager) Version() string {
	return m.doc.Version
}

// DB returns the master database credentials.
func (m *Manager) DB() DatabaseConfig {
	return m.doc.DB
}

// Hosts returns the configured hostnames.
func (m *Manager) Hosts() []string {
	return m.doc.Hosts
}

// ListHosts is an alias of Hosts kept for symmetry with ListOdoos.
func (m *Manager) ListHosts() []string {
	return m.Hosts()
}

// SetHosts replaces the host list. At least one host must remain.
func (m *Manager) SetHosts(hosts []string) error {
	if len(hosts) == 0 {
		return fmt.Errorf("there must be at least one host")
	}
	m.doc.Hosts = hosts
	return m.save()
}

// AddHost appends a host. Adding a host that is already present is a no-op.
func (m *Manager) AddHost(host string) error {
	for _, h := range m.doc.Hosts {
		if h == host {
			return nil
		}
	}
	m.doc.Hosts = append(m.doc.Hosts, host)
	return m.save()
}

// RemoveHost removes a host. Removing an unknown host is a no-op; removing
// the only remaining host is an error.
func (m *Manager) RemoveHost(host string) error {
	idx := -1
	for i, h := range m.doc.Hosts {
		if h == host {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	if len(m.doc.Hosts) == 1 {
		return fmt.Errorf("cannot remove the only remaining host")
	}
	m.doc.Hosts = append(m.doc.Hosts[:idx], m.doc.Hosts[idx+1:]...)
	return m.save()
}

// Odoos returns every stored environment record.
func (m *Manager) Odoos() []OdooConfig {
	odoos := make([]OdooConfig, len(m.doc.Services))
	copy(odoos, m.doc.Services)
	return odoos
}

// GetOdoo returns the stored record for name.
func (m *Manager) GetOdoo(name string) (OdooConfig, error) {
	for _, svc := range m.doc.Services {
		if svc.Name == name {
			return svc, nil
		}
	}
	return OdooConfig{}, fmt.Errorf("odoo service %s does not exist", name)
}

// AddOdoo appends a new environment record and persists the document.
func (m *Manager) AddOdoo(odoo OdooConfig) error {
	for _, svc := range m.doc.Services {
		if svc.Name == odoo.Name {
			return &OdooAlreadyExistsError{Name: odoo.Name}
		}
	}
	if SecureServices[odoo.Name] {
		return fmt.Errorf("cannot add %s service", odoo.Name)
	}
	m.doc.Services = append(m.doc.Services, odoo)
	return m.save()
}

// RemoveOdoo drops an environment record and persists the document.
func (m *Manager) RemoveOdoo(name string) error {
	if SecureServices[name] {
		return fmt.Errorf("cannot remove %s service", name)
	}
	idx := -1
	for i, svc := range m.doc.Services {
		if svc.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("odoo service %s does not exist", name)
	}
	m.doc.Services = append(m.doc.Services[:idx], m.doc.Services[idx+1:]...)
	return m.save()
}
