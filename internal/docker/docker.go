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
package docker

import (
	"context"
	"fmt"
	"sort"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// composeServiceLabel is set by compose on every container it creates.
const composeServiceLabel = "com.docker.compose.service"

// Manager inspects the containers compose created for our services.
type Manager struct {
	cli *client.Client
}

// NewManager creates a docker client from the environment.
func NewManager() (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Manager{cli: cli}, nil
}

// ServiceStatus is the observed state of one service's container.
type ServiceStatus struct {
	Service   string
	Container string
	State     string
	Running   bool
	Ports     []string
}

// ServiceStatus returns the state of the container backing service, or a
// stopped status with no container when none exists.
func (m *Manager) ServiceStatus(ctx context.Context, service string) (*ServiceStatus, error) {
	containers, err := m.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", composeServiceLabel+"="+service)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers for %s: %w", service, err)
	}
	if len(containers) == 0 {
		return &ServiceStatus{Service: service, State: "absent"}, nil
	}

	inspect, err := m.cli.ContainerInspect(ctx, containers[0].ID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect container for %s: %w", service, err)
	}

	status := &ServiceStatus{
		Service:   service,
		Container: inspect.Name,
		State:     inspect.State.Status,
		Running:   inspect.State.Running,
	}
	if inspect.NetworkSettings != nil {
		status.Ports = formatPorts(inspect.NetworkSettings.Ports)
	}
	return status, nil
}

// formatPorts renders a port map as "80/tcp->0.0.0.0:8080" entries.
func formatPorts(ports nat.PortMap) []string {
	formatted := []string{}
	for port, bindings := range ports {
		for _, binding := range bindings {
			formatted = append(formatted, fmt.Sprintf("%s->%s:%s", port, binding.HostIP, binding.HostPort))
		}
	}
	sort.Strings(formatted)
	return formatted
}
