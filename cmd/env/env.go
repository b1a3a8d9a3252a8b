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
package env

import (
	"github.com/spf13/cobra"

	"github.com/havmedia/aura/internal/compose"
	"github.com/havmedia/aura/internal/config"
)

const (
	composeFileName = "docker-compose.yml"
	setupFileName   = "setup.yml"
)

var EnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Create, inspect and remove Odoo environments",
	Long:  `Each environment is an isolated Odoo instance sharing the postgres server, routed through the reverse proxy under its own hostname.`,
}

// loadManagers binds both document managers in the current directory.
func loadManagers() (*config.Manager, *compose.Manager, error) {
	configManager, err := config.NewManager(setupFileName)
	if err != nil {
		return nil, nil, err
	}
	composeManager, err := compose.NewManager(composeFileName)
	if err != nil {
		return nil, nil, err
	}
	return configManager, composeManager, nil
}
