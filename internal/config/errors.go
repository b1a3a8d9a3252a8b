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

import "fmt"

// AlreadyExistsError is returned when Create would overwrite a setup document.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("config file %s already exists", e.Path)
}

// NotFoundError is returned when a manager is bound to a missing document.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist", e.Path)
}

// PermissionError is returned when the setup document cannot be read or written.
type PermissionError struct {
	Path string
	Op   string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: cannot %s config file '%s'", e.Op, e.Path)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// OdooAlreadyExistsError is returned when an environment name is already taken.
type OdooAlreadyExistsError struct {
	Name string
}

func (e *OdooAlreadyExistsError) Error() string {
	return fmt.Sprintf("cannot add odoo: odoo with name %s already exists", e.Name)
}
