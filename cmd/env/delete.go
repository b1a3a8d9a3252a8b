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
	"errors"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/havmedia/aura/internal/compose"
	"github.com/havmedia/aura/internal/config"
	"github.com/havmedia/aura/render"
)

// deleteEnvironments removes each name from both documents. Environments
// recorded without a compose service (the initial one, before its service
// is added) only exist in the setup document.
func deleteEnvironments(configManager *config.Manager, composeManager *compose.Manager, names []string) error {
	for _, name := range names {
		if err := configManager.RemoveOdoo(name); err != nil {
			return err
		}
		if err := composeManager.RemoveService(name); err != nil {
			var notFound *compose.ServiceNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}
	return nil
}

var deleteCmd = &cobra.Command{
	Use:   "delete NAME...",
	Short: "Delete one or more Odoo environments",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := render.GetLogger(log.Options{Prefix: "Env Delete"})

		configManager, composeManager, err := loadManagers()
		if err != nil {
			logger.Fatalf("%s", err)
		}

		if err := deleteEnvironments(configManager, composeManager, args); err != nil {
			logger.Fatalf("%s", err)
		}
		for _, name := range args {
			pterm.Info.Printfln("Removed environment %s", name)
		}
	},
}

func init() {
	EnvCmd.AddCommand(deleteCmd)
}
