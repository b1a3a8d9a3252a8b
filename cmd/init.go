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
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/havmedia/aura/internal/compose"
	"github.com/havmedia/aura/internal/config"
	"github.com/havmedia/aura/internal/hosts"
	"github.com/havmedia/aura/internal/secrets"
	"github.com/havmedia/aura/render"
)

const (
	composeFileName = "docker-compose.yml"
	setupFileName   = "setup.yml"

	dbMasterDefaultName = "postgres"
	liveEnvironmentName = "live"
)

// validVersions are the Odoo releases a setup can be initialized with.
var validVersions = []string{"18.0"}

func stage1ValidateHosts(hostList []string) error {
	return hosts.NewValidator().ValidateHosts(hostList)
}

func stage2Documents(hostList []string, odooVersion string) (*compose.Manager, *config.Manager, error) {
	composeManager, err := compose.NewManager(composeFileName)
	if err != nil {
		return nil, nil, err
	}
	if len(composeManager.ListServices()) > 0 {
		return nil, nil, fmt.Errorf("cannot initialize: services already exist in %s", composeFileName)
	}

	configManager, err := config.Create(odooVersion, hostList, config.DatabaseConfig{
		Name:     dbMasterDefaultName,
		User:     dbMasterDefaultName,
		Password: secrets.CreatePassword(32),
	}, setupFileName)
	if err != nil {
		return nil, nil, err
	}
	return composeManager, configManager, nil
}

func stage3Services(composeManager *compose.Manager, configManager *config.Manager) error {
	if err := composeManager.AddService(compose.NewPostgresService("db", configManager.DB(), 5432, "15")); err != nil {
		return err
	}

	if err := configManager.AddOdoo(config.OdooConfig{
		Name:       liveEnvironmentName,
		DBPassword: secrets.CreatePassword(32),
	}); err != nil {
		return err
	}

	if err := composeManager.AddService(compose.NewTraefikService("traefik", 8080, true, false)); err != nil {
		return err
	}

	return composeManager.AddService(compose.NewWhoamiService("whoami", 2001))
}

func stage4Up(composeManager *compose.Manager, p *tea.Program) error {
	reader, writer := io.Pipe()
	composeManager.SetOutput(writer)
	go render.SendLogsToTUI(reader, p)
	defer writer.Close()
	defer composeManager.SetOutput(os.Stdout)

	return composeManager.Up("", true)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the base stack with a database, reverse proxy and whoami service",
	Long: `This command writes a fresh docker-compose.yml and setup.yml in the current
		directory, wires up the shared postgres server and the Traefik reverse proxy,
		and registers the first Odoo environment.
		`,
	Run: func(cmd *cobra.Command, args []string) {
		render.RenderAuraBig()
		start := time.Now()

		hostList, _ := cmd.Flags().GetStringSlice("host")
		odooVersion, _ := cmd.Flags().GetString("version")
		noUp, _ := cmd.Flags().GetBool("no-up")

		if len(hostList) == 0 {
			hostInput := render.GetDefaultTextInput("Please enter the hostname for your Odoo deployment", "", "odoo.example.com")
			host, err := hostInput.RunPrompt()
			if err != nil {
				render.GetLogger(log.Options{Prefix: "Aura Init"}).Fatalf("%s", err)
			}
			hostList = []string{host}
		}

		validVersion := false
		for _, v := range validVersions {
			if v == odooVersion {
				validVersion = true
				break
			}
		}
		if !validVersion {
			render.GetLogger(log.Options{Prefix: "Aura Init"}).Fatalf("invalid version %s - valid versions are %v", odooVersion, validVersions)
		}

		cmdStages := []render.Stage{
			render.MakeStage("Validating hosts", "Hosts validated successfully", false),
			render.MakeStage("Writing setup documents", "Setup documents written successfully", false),
			render.MakeStage("Adding core services", "Core services added successfully", false),
			render.MakeStage("Starting the stack", "Stack started successfully", true),
		}

		p := tea.NewProgram(render.TuiModel{
			Stages:      cmdStages,
			BannerMsg:   "Aura booting up! 🚀",
			ActiveIndex: 0,
			Quitting:    false,
			AllDone:     false,
		})

		go func() {
			if err := stage1ValidateHosts(hostList); err != nil {
				p.Send(render.ErrorMsg{ErrorStr: fmt.Sprintf("Host validation failed: %s", err)})
				return
			}
			time.Sleep(time.Millisecond * 100)
			p.Send(render.NextStageMsg{})

			composeManager, configManager, err := stage2Documents(hostList, odooVersion)
			if err != nil {
				p.Send(render.ErrorMsg{ErrorStr: fmt.Sprintf("Setup failed: %s", err)})
				return
			}
			time.Sleep(time.Millisecond * 100)
			p.Send(render.NextStageMsg{})

			if err := stage3Services(composeManager, configManager); err != nil {
				p.Send(render.ErrorMsg{ErrorStr: fmt.Sprintf("Adding services failed: %s", err)})
				return
			}
			time.Sleep(time.Millisecond * 100)
			p.Send(render.NextStageMsg{})

			if !noUp {
				if err := stage4Up(composeManager, p); err != nil {
					p.Send(render.ErrorMsg{ErrorStr: fmt.Sprintf("Starting the stack failed: %s", err)})
					return
				}
			}

			p.Send(render.AllDoneMsg{
				Duration: time.Since(start).Round(time.Second),
				Message:  fmt.Sprintf("Your stack is ready - Traefik dashboard at http://%s:8080\nCreate environments with aura env create", hostList[0]),
			})
		}()

		if _, err := p.Run(); err != nil {
			fmt.Println("Error running program:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringSlice("host", []string{}, "Hostname which should be used for odoo")
	initCmd.Flags().String("version", "18.0", "Odoo version to install")
	initCmd.Flags().Bool("no-up", false, "Write the documents without starting the stack")
}
