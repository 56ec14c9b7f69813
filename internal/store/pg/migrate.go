package pg

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/syndik/internal/store"
	migrations "github.com/dropDatabas3/syndik/migrations/postgres"
)

// Las migraciones SQL se embeben en el binario.
// Formato de archivo: {version}_{name}.sql (ej: 0001_init.sql)

// Migration representa una migración individual.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrationFilePattern patrón para nombres de archivo de migración.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// ParseMigrations lee y parsea las migraciones del FS embebido, ordenadas por versión.
func ParseMigrations(fsys embed.FS, dir string) ([]Migration, error) {
	var out []Migration

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := migrationFilePattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil // Ignorar archivos que no coinciden
		}
		version, _ := strconv.Atoi(matches[1])

		content, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		out = append(out, Migration{Version: version, Name: matches[2], SQL: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS _migrations (
		version INT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	)`

func appliedVersions(ctx context.Context, q querier) (map[int]bool, error) {
	rows, err := q.Query(ctx, `SELECT version FROM _migrations`)
	if err != nil {
		return nil, err
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

// Migrate aplica las migraciones pendientes, cada una en su propia transacción.
// Retorna los nombres de las migraciones aplicadas.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	if _, err := s.pool.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}
	applied, err := appliedVersions(ctx, s.pool)
	if err != nil {
		return nil, fmt.Errorf("getting applied migrations: %w", err)
	}
	migs, err := ParseMigrations(migrations.FS, migrations.Dir)
	if err != nil {
		return nil, fmt.Errorf("parsing migrations: %w", err)
	}

	var done []string
	for _, mig := range migs {
		if applied[mig.Version] {
			continue
		}
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO _migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return done, fmt.Errorf("applying migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		done = append(done, fmt.Sprintf("%04d_%s", mig.Version, mig.Name))
	}
	return done, nil
}

// MigrationStatus lista las migraciones embebidas y si ya fueron aplicadas.
func (s *Store) MigrationStatus(ctx context.Context) ([]store.MigrationInfo, error) {
	if _, err := s.pool.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}
	applied, err := appliedVersions(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	migs, err := ParseMigrations(migrations.FS, migrations.Dir)
	if err != nil {
		return nil, err
	}
	out := make([]store.MigrationInfo, 0, len(migs))
	for _, m := range migs {
		out = append(out, store.MigrationInfo{Version: m.Version, Name: m.Name, Applied: applied[m.Version]})
	}
	return out, nil
}
