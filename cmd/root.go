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
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/havmedia/aura/cmd/env"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "aura",
	Version: version,
	Short:   "CLI to provision and manage multi-tenant Odoo deployments on one host",
	Long:    `Aura sets up a reverse proxy, a shared postgres server and any number of isolated Odoo environments on a single machine, all wired together through docker compose.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{println .Version}}`)
	rootCmd.AddCommand(env.EnvCmd)
}
