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
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/havmedia/aura/internal/config"
)

// validKeys is the full set of configuration keys a service entry may carry.
var validKeys = map[string]bool{
	"image": true, "command": true, "ports": true, "environment": true,
	"volumes": true, "depends_on": true, "build": true, "container_name": true,
	"restart": true, "networks": true, "labels": true, "expose": true,
	"env_file": true, "entrypoint": true, "user": true, "working_dir": true,
	"healthcheck": true,
}

// typedKeys lists the keys with a type constraint, in the order they are
// checked when a service is rebuilt from a stored mapping.
var typedKeys = []string{"image", "command", "ports", "environment", "volumes", "depends_on"}

// validRestartPolicies is the legal set for the restart key.
var validRestartPolicies = []string{"no", "always", "on-failure", "unless-stopped"}

// Service builds one compose service entry. Setters chain and keep the
// insertion order of keys so the persisted document stays stable.
type Service struct {
	name   string
	keys   []string
	values map[string]interface{}
}

// NewService returns an empty service named name.
func NewService(name string) *Service {
	return &Service{
		name:   name,
		values: map[string]interface{}{},
	}
}

// Name returns the service name.
func (s *Service) Name() string {
	return s.name
}

func (s *Service) set(key string, value interface{}) *Service {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s
}

// SetImage sets the container image.
func (s *Service) SetImage(image string) *Service {
	return s.set("image", image)
}

// SetCommand sets the container command in exec form.
func (s *Service) SetCommand(command []string) *Service {
	return s.set("command", command)
}

// SetCommandString sets the container command as a single shell string.
func (s *Service) SetCommandString(command string) *Service {
	return s.set("command", command)
}

// SetPorts sets the published port mappings.
func (s *Service) SetPorts(ports []string) *Service {
	return s.set("ports", ports)
}

// SetEnvironment sets the environment variables of the container.
func (s *Service) SetEnvironment(env map[string]string) *Service {
	return s.set("environment", env)
}

// SetVolumes sets the volume mappings.
func (s *Service) SetVolumes(volumes []string) *Service {
	return s.set("volumes", volumes)
}

// SetDependsOn sets the services this one depends on.
func (s *Service) SetDependsOn(services []string) *Service {
	return s.set("depends_on", services)
}

// SetLabels replaces the label list.
func (s *Service) SetLabels(labels []string) *Service {
	return s.set("labels", labels)
}

// AddLabels appends to the label list.
func (s *Service) AddLabels(labels ...string) *Service {
	existing, _ := normalizeLabels(s.values["labels"]).([]string)
	return s.set("labels", append(existing, labels...))
}

// SetRestartPolicy sets the restart key. The prior value is left untouched
// when policy is not in the legal set.
func (s *Service) SetRestartPolicy(policy string) error {
	valid := false
	for _, p := range validRestartPolicies {
		if p == policy {
			valid = true
			break
		}
	}
	if !valid {
		return &InvalidRestartPolicyError{Policy: policy, Valid: validRestartPolicies}
	}
	s.set("restart", policy)
	return nil
}

// Healthcheck describes the healthcheck block of a service. A string Test
// is normalized to the CMD-SHELL form; a Test given as a list is stored
// as-is. Zero values of Interval, Timeout and Retries fall back to the
// compose defaults used across the stack.
type Healthcheck struct {
	Test        interface{}
	Interval    string
	Timeout     string
	Retries     int
	StartPeriod string
	Disable     bool
}

// SetHealthcheck stores the healthcheck block. Disable wins over every
// other field and stores exactly {disable: true}.
func (s *Service) SetHealthcheck(hc Healthcheck) *Service {
	if hc.Disable {
		return s.set("healthcheck", map[string]interface{}{"disable": true})
	}

	test := hc.Test
	if cmd, ok := test.(string); ok {
		test = []string{"CMD-SHELL", cmd}
	}

	interval := hc.Interval
	if interval == "" {
		interval = "30s"
	}
	timeout := hc.Timeout
	if timeout == "" {
		timeout = "30s"
	}
	retries := hc.Retries
	if retries == 0 {
		retries = 3
	}

	block := map[string]interface{}{
		"test":     test,
		"interval": interval,
		"timeout":  timeout,
		"retries":  retries,
	}
	if hc.StartPeriod != "" {
		block["start_period"] = hc.StartPeriod
	}
	return s.set("healthcheck", block)
}

// AddTraefik appends the routing labels that bind this service to host and
// expose port through the reverse proxy.
func (s *Service) AddTraefik(host string, port int) *Service {
	return s.AddLabels(
		"traefik.enable=true",
		fmt.Sprintf("traefik.http.routers.%s.rule=Host(`%s`)", s.name, host),
		fmt.Sprintf("traefik.http.routers.%s.entrypoints=web", s.name),
		fmt.Sprintf("traefik.http.services.%s.loadbalancer.server.port=%d", s.name, port),
	)
}

// ToMap returns the descriptor as a one-entry mapping keyed by the service
// name. No hidden defaults are injected.
func (s *Service) ToMap() map[string]map[string]interface{} {
	cfg := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		cfg[k] = v
	}
	return map[string]map[string]interface{}{s.name: cfg}
}

// toNode renders the descriptor as a yaml mapping preserving key order.
func (s *Service) toNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range s.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(s.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// FromMap rebuilds a service from a previously stored mapping. Unknown keys
// are collected and reported all at once; type constraints are checked per
// key in declaration order.
func FromMap(name string, cfg map[string]interface{}) (*Service, error) {
	return fromOrderedMap(name, orderedKeys(cfg), cfg)
}

// fromOrderedMap is FromMap with an explicit key order, so callers that
// still know the stored order can keep it.
func fromOrderedMap(name string, keys []string, cfg map[string]interface{}) (*Service, error) {
	var invalid []string
	for key := range cfg {
		if !validKeys[key] {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &InvalidKeysError{Keys: invalid}
	}

	for _, key := range typedKeys {
		value, ok := cfg[key]
		if !ok {
			continue
		}
		switch key {
		case "image":
			if _, ok := value.(string); !ok {
				return nil, &InvalidValueTypeError{Key: key, Expected: "string", Actual: kindOf(value)}
			}
		case "command":
			if !isString(value) && !isList(value) {
				return nil, &InvalidValueTypeError{Key: key, Expected: "string or list", Actual: kindOf(value)}
			}
		case "environment":
			if !isMapping(value) {
				return nil, &InvalidValueTypeError{Key: key, Expected: "dictionary", Actual: kindOf(value)}
			}
		default: // ports, volumes, depends_on
			if !isList(value) {
				return nil, &InvalidValueTypeError{Key: key, Expected: "list", Actual: kindOf(value)}
			}
		}
	}

	svc := NewService(name)
	for _, key := range keys {
		value := cfg[key]
		if key == "labels" {
			value = normalizeLabels(value)
		}
		svc.set(key, value)
	}
	return svc, nil
}

// normalizeLabels converts a decoded label list back to []string so AddLabels
// can keep appending after a round trip through the document.
func normalizeLabels(value interface{}) interface{} {
	raw, ok := value.([]interface{})
	if !ok {
		return value
	}
	labels := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return value
		}
		labels = append(labels, s)
	}
	return labels
}

// orderedKeys lists the typed keys first, in check order, then the rest
// alphabetically, so rebuilt descriptors serialize deterministically.
func orderedKeys(cfg map[string]interface{}) []string {
	var keys []string
	seen := map[string]bool{}
	for _, key := range typedKeys {
		if _, ok := cfg[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range cfg {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func isString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

func isList(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	}
	return false
}

func isMapping(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, map[string]string, map[interface{}]interface{}:
		return true
	}
	return false
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case []interface{}, []string:
		return "list"
	case map[string]interface{}, map[string]string, map[interface{}]interface{}:
		return "dictionary"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// NewPostgresService builds the shared database service.
func NewPostgresService(name string, db config.DatabaseConfig, port int, version string) *Service {
	svc := NewService(name)
	svc.SetImage(fmt.Sprintf("postgres:%s", version))
	svc.SetEnvironment(map[string]string{
		"POSTGRES_PASSWORD": db.Password,
		"POSTGRES_USER":     db.User,
		"POSTGRES_DB":       db.Name,
	})
	svc.SetPorts([]string{fmt.Sprintf("%d:5432", port)})
	svc.SetVolumes([]string{fmt.Sprintf("./%s/data:/var/lib/postgresql/data", name)})
	svc.SetHealthcheck(Healthcheck{
		Test:     fmt.Sprintf("pg_isready -U %s", db.User),
		Interval: "10s",
		Timeout:  "5s",
		Retries:  5,
	})
	svc.SetRestartPolicy("unless-stopped")
	return svc
}

// NewTraefikService builds the reverse proxy service.
func NewTraefikService(name string, dashboardPort int, apiInsecure bool, metrics bool) *Service {
	svc := NewService(name)
	svc.SetImage("traefik:v3")
	svc.SetPorts([]string{
		"80:80",
		"443:443",
		fmt.Sprintf("%d:8080", dashboardPort),
	})

	command := []string{
		"--providers.docker=true",
		"--providers.docker.exposedbydefault=false",
		"--entrypoints.web.address=:80",
		"--entrypoints.websecure.address=:443",
	}
	if metrics {
		command = append(command, "--metrics.prometheus=true")
	}
	if apiInsecure {
		command = append(command, "--api.insecure=true", "--api.dashboard=true")
	}
	svc.SetCommand(command)

	svc.SetVolumes([]string{
		"/var/run/docker.sock:/var/run/docker.sock:ro",
		fmt.Sprintf("./%s/config:/etc/traefik", name),
	})
	svc.SetRestartPolicy("unless-stopped")
	return svc
}

// NewWhoamiService builds the diagnostic placeholder service.
func NewWhoamiService(name string, port int) *Service {
	svc := NewService(name)
	svc.SetImage("traefik/whoami")
	svc.SetCommand([]string{
		fmt.Sprintf("--port=%d", port),
		fmt.Sprintf("--name=%s", name),
	})
	svc.SetPorts([]string{fmt.Sprintf("%d:%d", port, port)})
	return svc
}

// NewOdooService builds one Odoo environment service routed through the
// reverse proxy at host. Extra environment variables are merged in; the
// database wiring keys always win.
func NewOdooService(odoo config.OdooConfig, version string, host string, extraEnv map[string]string) *Service {
	env := make(map[string]string, len(extraEnv)+3)
	for k, v := range extraEnv {
		env[k] = v
	}
	env["HOST"] = "db"
	env["USER"] = odoo.Name
	env["PASSWORD"] = odoo.DBPassword

	svc := NewService(odoo.Name)
	svc.SetImage(fmt.Sprintf("odoo:%s", version))
	svc.SetDependsOn([]string{"db"})
	svc.SetEnvironment(env)
	svc.SetVolumes([]string{
		fmt.Sprintf("./%s/data:/var/lib/odoo", odoo.Name),
		fmt.Sprintf("./%s/addons:/mnt/extra-addons", odoo.Name),
	})
	svc.AddTraefik(host, 8069)
	svc.SetRestartPolicy("unless-stopped")
	return svc
}
