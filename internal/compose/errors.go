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
	"strings"
)

// InvalidKeysError reports every configuration key outside the allow-list.
type InvalidKeysError struct {
	Keys []string
}

func (e *InvalidKeysError) Error() string {
	return fmt.Sprintf("invalid configuration keys: %s", strings.Join(e.Keys, ", "))
}

// InvalidValueTypeError reports a configuration value of the wrong kind.
type InvalidValueTypeError struct {
	Key      string
	Expected string
	Actual   string
}

func (e *InvalidValueTypeError) Error() string {
	return fmt.Sprintf("invalid type for '%s': expected %s, got %s", e.Key, e.Expected, e.Actual)
}

// InvalidRestartPolicyError reports a restart policy outside the legal set.
type InvalidRestartPolicyError struct {
	Policy string
	Valid  []string
}

func (e *InvalidRestartPolicyError) Error() string {
	return fmt.Sprintf("invalid restart policy '%s'. Must be one of: %s", e.Policy, strings.Join(e.Valid, ", "))
}

// ServiceNotFoundError is returned when operating on an unknown service.
type ServiceNotFoundError struct {
	Name string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service '%s' does not exist", e.Name)
}

// ServiceAlreadyExistsError is returned when adding a duplicate service.
type ServiceAlreadyExistsError struct {
	Name string
}

func (e *ServiceAlreadyExistsError) Error() string {
	return fmt.Sprintf("service '%s' already exists", e.Name)
}

// ProtectedServiceError is returned when removing an infrastructure service.
type ProtectedServiceError struct {
	Name string
}

func (e *ProtectedServiceError) Error() string {
	return fmt.Sprintf("cannot remove %s service", e.Name)
}

// FilePermissionError is returned when the compose document cannot be
// read or written.
type FilePermissionError struct {
	Path string
	Op   string
	Err  error
}

func (e *FilePermissionError) Error() string {
	return fmt.Sprintf("permission denied: cannot %s compose file '%s'", e.Op, e.Path)
}

func (e *FilePermissionError) Unwrap() error {
	return e.Err
}

// DockerNotFoundError means neither compose CLI variant responded.
type DockerNotFoundError struct{}

func (e *DockerNotFoundError) Error() string {
	return "neither 'docker compose' nor 'docker-compose' found"
}

// CommandExecutionError carries the full command line of a failed
// docker compose invocation.
type CommandExecutionError struct {
	Command string
	Err     error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("docker command '%s' failed: %s", e.Command, e.Err)
}

func (e *CommandExecutionError) Unwrap() error {
	return e.Err
}
