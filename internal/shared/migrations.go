package shared

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var embedded embed.FS

// Schema holds the favorites store migrations: pairs of NNNN_name_up.sql and NNNN_name_down.sql.
var Schema fs.FS = mustSub(embedded, "sql")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Label renders "0000_create_kv_store".
func (m Migration) Label() string {
	return fmt.Sprintf("%04d_%s", m.Version, m.Name)
}

// SchemaStatus describes the applied state of a database.
type SchemaStatus struct {
	// Current is the latest applied migration, nil when nothing is applied.
	Current *Migration
	Pending int
}

// Migrator applies the migrations found in a filesystem to one database.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

// NewMigrator reads and orders the migrations in fsys.
//
// Every version needs both an up and a down file.
func NewMigrator(db *sql.DB, fsys fs.FS) (*Migrator, error) {
	migrations, err := readMigrations(fsys)
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

func readMigrations(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	byVersion := map[int]*Migration{}
	for _, file := range names {
		stem, direction, ok := cutDirection(strings.TrimSuffix(file, ".sql"))
		if !ok {
			continue
		}
		prefix, name, ok := strings.Cut(stem, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("incomplete migration %s", m.Label())
		}
		migrations = append(migrations, *m)
	}
	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	return migrations, nil
}

func cutDirection(stem string) (string, string, bool) {
	for _, dir := range []string{"up", "down"} {
		if s, ok := strings.CutSuffix(stem, "_"+dir); ok {
			return s, dir, true
		}
	}
	return "", "", false
}

// Migrations returns the known migrations in version order.
func (m *Migrator) Migrations() []Migration {
	return slices.Clone(m.migrations)
}

// Up applies every pending migration, each in its own transaction, and returns those applied.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var done []Migration
	for _, mig := range m.migrations {
		if applied[mig.Version] {
			continue
		}
		if err := m.run(ctx, mig.Up, "INSERT INTO schema_migrations (version) VALUES (?)", mig.Version); err != nil {
			return done, fmt.Errorf("failed to apply migration %s: %w", mig.Label(), err)
		}
		done = append(done, mig)
	}
	return done, nil
}

// Down reverts the latest applied migration and returns it.
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status.Current == nil {
		return nil, ErrNoMigrations
	}

	mig := *status.Current
	if err := m.run(ctx, mig.Down, "DELETE FROM schema_migrations WHERE version = ?", mig.Version); err != nil {
		return nil, fmt.Errorf("failed to roll back migration %s: %w", mig.Label(), err)
	}
	return &mig, nil
}

// Status reports the latest applied migration and how many are pending.
func (m *Migrator) Status(ctx context.Context) (SchemaStatus, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return SchemaStatus{}, err
	}

	var status SchemaStatus
	for i, mig := range m.migrations {
		if !applied[mig.Version] {
			status.Pending++
			continue
		}
		status.Current = &m.migrations[i]
	}
	if status.Current == nil && len(applied) > 0 {
		return status, fmt.Errorf("database has migrations this build does not know")
	}
	return status, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]bool, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// run executes script and the bookkeeping statement in one transaction.
func (m *Migrator) run(ctx context.Context, script, record string, version int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w\nstatement: %s", err, stmt)
		}
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return err
	}
	return tx.Commit()
}

// splitStatements drops "--" comments and splits script on semicolons.
func splitStatements(script string) []string {
	var b strings.Builder
	for line := range strings.Lines(script) {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i] + "\n"
		}
		b.WriteString(line)
	}

	var stmts []string
	for stmt := range strings.SplitSeq(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// RunMigrations applies every pending [Schema] migration to db.
func RunMigrations(db *sql.DB) error {
	m, err := NewMigrator(db, Schema)
	if err != nil {
		return err
	}
	_, err = m.Up(context.Background())
	return err
}
