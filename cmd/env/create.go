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
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/havmedia/aura/internal/compose"
	"github.com/havmedia/aura/internal/config"
	"github.com/havmedia/aura/internal/secrets"
	"github.com/havmedia/aura/render"
)

// createEnvironments registers each name in the setup document and adds a
// matching Odoo service to the compose document. There is no rollback: a
// failure leaves earlier names fully created.
func createEnvironments(configManager *config.Manager, composeManager *compose.Manager,
	names []string, routeHost string, extraEnv map[string]string) ([]string, error) {
	urls := make([]string, 0, len(names))
	for _, name := range names {
		odoo := config.OdooConfig{
			Name:       name,
			DBPassword: secrets.CreatePassword(32),
		}
		if err := configManager.AddOdoo(odoo); err != nil {
			return urls, err
		}

		host := fmt.Sprintf("%s.%s", name, routeHost)
		svc := compose.NewOdooService(odoo, configManager.Version(), host, extraEnv)
		if err := composeManager.AddService(svc); err != nil {
			return urls, err
		}
		urls = append(urls, host)
	}
	return urls, nil
}

var createCmd = &cobra.Command{
	Use:   "create NAME...",
	Short: "Create one or more Odoo environments",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := render.GetLogger(log.Options{Prefix: "Env Create"})

		configManager, composeManager, err := loadManagers()
		if err != nil {
			logger.Fatalf("%s", err)
		}

		routeHost, _ := cmd.Flags().GetString("host")
		if routeHost == "" {
			hostList := configManager.Hosts()
			if len(hostList) == 0 {
				logger.Fatal("no hosts configured - run aura init first")
			}
			routeHost = hostList[0]
		}

		extraEnv := map[string]string{}
		if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
			extraEnv, err = godotenv.Read(envFile)
			if err != nil {
				logger.Fatalf("unable to process env file %s: %s", envFile, err)
			}
		}

		urls, err := createEnvironments(configManager, composeManager, args, routeHost, extraEnv)
		for _, url := range urls {
			pterm.Info.Printfln("😎 Environment ready at http://%s", url)
		}
		if err != nil {
			logger.Fatalf("%s", err)
		}
	},
}

func init() {
	EnvCmd.AddCommand(createCmd)

	createCmd.Flags().String("host", "", "Route the environment under this host instead of the first configured one")
	createCmd.Flags().String("env-file", "", "Load extra environment variables for the Odoo container from this file")
}
