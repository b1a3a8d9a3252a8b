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
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/havmedia/aura/internal/config"
	"github.com/havmedia/aura/internal/database"
	"github.com/havmedia/aura/internal/secrets"
	"github.com/havmedia/aura/render"
)

// viperInit loads optional operator defaults from ~/.config/aura. A missing
// config file is fine; flags and AURA_* env vars still apply.
func viperInit() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	viper.AddConfigPath(fmt.Sprintf("%s/.config/aura", home))
	viper.SetConfigType("yaml")
	viper.SetConfigName("default")
	viper.SetEnvPrefix("aura")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil
		}
		return err
	}
	return nil
}

// databaseManager resolves connection settings from flags, env and the
// operator config. An empty password falls back to the master credentials
// in setup.yml when present.
func databaseManager() *database.Manager {
	password := viper.GetString("dbPassword")
	user := viper.GetString("dbUser")
	dbname := viper.GetString("dbName")

	if password == "" {
		if configManager, err := config.NewManager(setupFileName); err == nil {
			db := configManager.DB()
			password = db.Password
			if user == "" {
				user = db.User
			}
			if dbname == "" {
				dbname = db.Name
			}
		}
	}

	return database.NewManager(
		viper.GetString("dbHost"),
		viper.GetInt("dbPort"),
		user,
		password,
		dbname,
	)
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Administer the shared postgres server",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := viperInit(); err != nil {
			render.GetLogger(log.Options{Prefix: "Aura Config"}).Fatalf("%s", err)
		}
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Dump the configured database to a plain-format backup file",
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		path, err := databaseManager().CreateBackup(output)
		if err != nil {
			render.GetLogger(log.Options{Prefix: "DB Backup"}).Fatalf("%s", err)
		}
		pterm.Info.Printfln("Backup written to %s", path)
	},
}

var dbRestoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Restore the configured database from a backup file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := databaseManager().RestoreBackup(args[0]); err != nil {
			render.GetLogger(log.Options{Prefix: "DB Restore"}).Fatalf("%s", err)
		}
		pterm.Info.Printfln("Restored %s", args[0])
	},
}

var dbCloneCmd = &cobra.Command{
	Use:   "clone SOURCE TARGET",
	Short: "Recreate TARGET as a copy of SOURCE",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := databaseManager().DuplicateDatabase(context.Background(), args[0], args[1]); err != nil {
			render.GetLogger(log.Options{Prefix: "DB Clone"}).Fatalf("%s", err)
		}
		pterm.Info.Printfln("Cloned %s into %s", args[0], args[1])
	},
}

var dbCreateUserCmd = &cobra.Command{
	Use:   "create-user NAME",
	Short: "Create a login role, generating a password unless one is given",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		superuser, _ := cmd.Flags().GetBool("superuser")

		generated := false
		if password == "" {
			password = secrets.CreatePassword(32)
			generated = true
		}

		if err := databaseManager().CreateUser(context.Background(), args[0], password, superuser); err != nil {
			render.GetLogger(log.Options{Prefix: "DB User"}).Fatalf("%s", err)
		}
		if generated {
			pterm.Info.Printfln("Created user %s with password %s", args[0], password)
		} else {
			pterm.Info.Printfln("Created user %s", args[0])
		}
	},
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all non-template databases",
	Run: func(cmd *cobra.Command, args []string) {
		names, err := databaseManager().ListDatabases(context.Background())
		if err != nil {
			render.GetLogger(log.Options{Prefix: "DB List"}).Fatalf("%s", err)
		}
		for _, name := range names {
			pterm.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbBackupCmd)
	dbCmd.AddCommand(dbRestoreCmd)
	dbCmd.AddCommand(dbCloneCmd)
	dbCmd.AddCommand(dbCreateUserCmd)
	dbCmd.AddCommand(dbListCmd)

	dbCmd.PersistentFlags().String("host", "localhost", "Postgres host")
	dbCmd.PersistentFlags().Int("port", 5432, "Postgres port")
	dbCmd.PersistentFlags().String("user", "", "Postgres user")
	dbCmd.PersistentFlags().String("password", "", "Postgres password")
	dbCmd.PersistentFlags().String("dbname", "", "Database to operate on")

	viper.BindPFlag("dbHost", dbCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("dbPort", dbCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("dbUser", dbCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("dbPassword", dbCmd.PersistentFlags().Lookup("password"))
	viper.BindPFlag("dbName", dbCmd.PersistentFlags().Lookup("dbname"))

	dbBackupCmd.Flags().StringP("output", "o", "backup", "Backup file path")
	dbCreateUserCmd.Flags().String("password", "", "Password for the new user")
	dbCreateUserCmd.Flags().Bool("superuser", false, "Grant superuser privileges")
}
