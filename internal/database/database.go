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
package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
)

// Manager runs administrative operations against one PostgreSQL server.
// Connections are opened per call and closed on every exit path; there is
// no pooling.
type Manager struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// NewManager returns a manager for the given connection settings. Empty
// host, user and database fall back to the postgres defaults.
func NewManager(host string, port int, user string, password string, dbname string) *Manager {
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 5432
	}
	if user == "" {
		user = "postgres"
	}
	if dbname == "" {
		dbname = "postgres"
	}
	return &Manager{Host: host, Port: port, User: user, Password: password, Database: dbname}
}

// connect opens an autocommit connection to dbname, or to the configured
// database when dbname is empty. Simple protocol keeps statements like
// CREATE DATABASE runnable outside a transaction block.
func (m *Manager) connect(ctx context.Context, dbname string) (*pgx.Conn, error) {
	if dbname == "" {
		dbname = m.Database
	}
	cfg, err := pgx.ParseConfig("")
	if err != nil {
		return nil, err
	}
	cfg.Host = m.Host
	cfg.Port = uint16(m.Port)
	cfg.User = m.User
	cfg.Password = m.Password
	cfg.Database = dbname
	cfg.PreferSimpleProtocol = true

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s:%d/%s: %w", m.Host, m.Port, dbname, err)
	}
	return conn, nil
}

// ExecuteSQL runs one parameterized statement and returns all result rows,
// or an empty slice for statements without a result set.
func (m *Manager) ExecuteSQL(ctx context.Context, sql string, args ...interface{}) ([][]interface{}, error) {
	conn, err := m.connect(ctx, "")
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := [][]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		results = append(results, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// backupPath appends a timestamp before the suffix when outputFile does not
// already end in .sql.
func backupPath(outputFile string, now time.Time) string {
	if strings.HasSuffix(outputFile, ".sql") {
		return outputFile
	}
	return fmt.Sprintf("%s_%s.sql", outputFile, now.Format("20060102_150405"))
}

func (m *Manager) dumpArgs(outputFile string) []string {
	return []string{
		fmt.Sprintf("--host=%s", m.Host),
		fmt.Sprintf("--port=%d", m.Port),
		fmt.Sprintf("--username=%s", m.User),
		fmt.Sprintf("--dbname=%s", m.Database),
		"--format=p",
		fmt.Sprintf("--file=%s", outputFile),
	}
}

func (m *Manager) restoreArgs(backupFile string) []string {
	return []string{
		fmt.Sprintf("--host=%s", m.Host),
		fmt.Sprintf("--port=%d", m.Port),
		fmt.Sprintf("--username=%s", m.User),
		fmt.Sprintf("--dbname=%s", m.Database),
		"-f", backupFile,
	}
}

// childEnv is the parent environment plus PGPASSWORD, which dump and
// restore read instead of a password flag.
func (m *Manager) childEnv() []string {
	return append(os.Environ(), "PGPASSWORD="+m.Password)
}

// CreateBackup dumps the configured database to outputFile with pg_dump and
// returns the final path.
func (m *Manager) CreateBackup(outputFile string) (string, error) {
	outputFile = backupPath(outputFile, time.Now())

	args := m.dumpArgs(outputFile)
	cmd := exec.Command("pg_dump", args...)
	cmd.Env = m.childEnv()
	if err := cmd.Run(); err != nil {
		return "", &UtilityError{Command: "pg_dump " + strings.Join(args, " "), Err: err}
	}
	return outputFile, nil
}

// RestoreBackup feeds backupFile into the configured database with psql.
func (m *Manager) RestoreBackup(backupFile string) error {
	args := m.restoreArgs(backupFile)
	cmd := exec.Command("psql", args...)
	cmd.Env = m.childEnv()
	if err := cmd.Run(); err != nil {
		return &UtilityError{Command: "psql " + strings.Join(args, " "), Err: err}
	}
	return nil
}

// DuplicateDatabase recreates target as a template copy of source. The
// three statements run back to back without a wrapping transaction;
// CREATE DATABASE cannot run inside one.
func (m *Manager) DuplicateDatabase(ctx context.Context, source string, target string) error {
	conn, err := m.connect(ctx, "postgres")
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx,
		`SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid != pg_backend_pid()`,
		target)
	if err != nil {
		return err
	}

	// Database names are interpolated: postgres offers no parameter
	// binding for identifiers. Callers pass trusted operator input.
	if _, err := conn.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", target)); err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s WITH TEMPLATE %s", target, source)); err != nil {
		return err
	}
	return nil
}

// CreateUser creates a login role, optionally granting superuser with a
// second statement.
func (m *Manager) CreateUser(ctx context.Context, username string, password string, superuser bool) error {
	conn, err := m.connect(ctx, "")
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	// Same identifier caveat as DuplicateDatabase; the password stays a
	// bind parameter.
	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE USER %s WITH PASSWORD $1", username), password); err != nil {
		return err
	}
	if superuser {
		if _, err := conn.Exec(ctx, fmt.Sprintf("ALTER USER %s WITH SUPERUSER", username)); err != nil {
			return err
		}
	}
	return nil
}

// ListDatabases returns every non-template database name.
func (m *Manager) ListDatabases(ctx context.Context) ([]string, error) {
	rows, err := m.ExecuteSQL(ctx, "SELECT datname FROM pg_database WHERE datistemplate = false")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row[0].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// UtilityError carries the full command line of a failed dump or restore.
type UtilityError struct {
	Command string
	Err     error
}

func (e *UtilityError) Error() string {
	return fmt.Sprintf("database utility '%s' failed: %s", e.Command, e.Err)
}

func (e *UtilityError) Unwrap() error {
	return e.Err
}
