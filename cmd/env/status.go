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
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/havmedia/aura/internal/docker"
	"github.com/havmedia/aura/render"
)

var statusCmd = &cobra.Command{
	Use:   "status [NAME...]",
	Short: "Show container state for environments, all of them when none given",
	Run: func(cmd *cobra.Command, args []string) {
		logger := render.GetLogger(log.Options{Prefix: "Env Status"})

		names := args
		if len(names) == 0 {
			configManager, _, err := loadManagers()
			if err != nil {
				logger.Fatalf("%s", err)
			}
			for _, odoo := range configManager.Odoos() {
				names = append(names, odoo.Name)
			}
		}

		dockerManager, err := docker.NewManager()
		if err != nil {
			logger.Fatalf("%s", err)
		}

		rows := pterm.TableData{{"Name", "State", "Ports"}}
		for _, name := range names {
			status, err := dockerManager.ServiceStatus(context.Background(), name)
			if err != nil {
				logger.Fatalf("%s", err)
			}
			rows = append(rows, []string{name, status.State, strings.Join(status.Ports, ", ")})
		}

		pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	EnvCmd.AddCommand(statusCmd)
}
