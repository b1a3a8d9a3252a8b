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
	"github.com/spf13/cobra"

	"github.com/havmedia/aura/internal/compose"
	"github.com/havmedia/aura/render"
)

var logsCmd = &cobra.Command{
	Use:   "logs [NAME]",
	Short: "Print container logs, scoped to one environment when given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := render.GetLogger(log.Options{Prefix: "Env Logs"})

		composeManager, err := compose.NewManager(composeFileName)
		if err != nil {
			logger.Fatalf("%s", err)
		}

		service := ""
		if len(args) == 1 {
			service = args[0]
		}

		output, err := composeManager.Logs(service)
		if err != nil {
			logger.Fatalf("%s", err)
		}
		fmt.Print(output)
	},
}

func init() {
	EnvCmd.AddCommand(logsCmd)
}
