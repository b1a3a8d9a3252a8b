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
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/havmedia/aura/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all Odoo environments",
	Run: func(cmd *cobra.Command, args []string) {
		logger := render.GetLogger(log.Options{Prefix: "Env List"})

		configManager, composeManager, err := loadManagers()
		if err != nil {
			logger.Fatalf("%s", err)
		}

		routeHost := ""
		if hostList := configManager.Hosts(); len(hostList) > 0 {
			routeHost = hostList[0]
		}

		rows := pterm.TableData{{"Name", "URL", "Service"}}
		for _, odoo := range configManager.Odoos() {
			service := "missing"
			if composeManager.HasService(odoo.Name) {
				service = "present"
			}
			rows = append(rows, []string{
				odoo.Name,
				fmt.Sprintf("http://%s.%s", odoo.Name, routeHost),
				service,
			})
		}

		pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	EnvCmd.AddCommand(listCmd)
}
