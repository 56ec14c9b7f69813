// Package pg implementa store.Store sobre PostgreSQL usando pgxpool.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/store"
)

// DriverName es el nombre con el que se registra el driver.
const DriverName = "postgres"

func init() {
	store.RegisterDriver(DriverName, func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return Connect(ctx, cfg)
	})
}

// querier es satisfecho por *pgxpool.Pool y pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// nullIfEmpty retorna nil si el string está vacío.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newID() string { return uuid.NewString() }

// mapErr traduce errores de pgx a errores del dominio.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.ConstraintName)
		case "23514", "22P02": // check_violation, invalid_text_representation
			return fmt.Errorf("%w: %s", repository.ErrInvalidInput, pgErr.Message)
		}
	}
	return err
}

// expectOne valida que un UPDATE/DELETE haya afectado una fila.
func expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Store es una conexión activa a PostgreSQL.
type Store struct {
	*repos
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Connect crea el pool y verifica la conexión.
func Connect(ctx context.Context, cfg store.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	} else {
		poolCfg.MinConns = 2
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &Store{repos: &repos{q: pool}, pool: pool}, nil
}

func (s *Store) Driver() string { return DriverName }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Pool expone el pool para migraciones y diagnósticos.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// InTx ejecuta fn dentro de una transacción read-committed.
// Dentro de la transacción Links().Get bloquea la fila (FOR UPDATE) para
// serializar cambios de saldo del mismo residente.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("pg: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&repos{q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pg: commit: %w", mapErr(err))
	}
	return nil
}

// repos implementa store.Repositories sobre un querier.
type repos struct {
	q    querier
	inTx bool
}

func (r *repos) Profiles() repository.ProfileRepository           { return &profileRepo{q: r.q} }
func (r *repos) Residences() repository.ResidenceRepository       { return &residenceRepo{q: r.q} }
func (r *repos) Links() repository.ProfileResidenceRepository     { return &linkRepo{q: r.q, lock: r.inTx} }
func (r *repos) Fees() repository.FeeRepository                   { return &feeRepo{q: r.q} }
func (r *repos) Contributions() repository.ContributionRepository { return &contributionRepo{q: r.q} }
func (r *repos) Payments() repository.PaymentRepository           { return &paymentRepo{q: r.q} }
func (r *repos) Expenses() repository.ExpenseRepository           { return &expenseRepo{q: r.q} }
func (r *repos) Incidents() repository.IncidentRepository         { return &incidentRepo{q: r.q} }
func (r *repos) Complaints() repository.ComplaintRepository       { return &complaintRepo{q: r.q} }
func (r *repos) Documents() repository.DocumentRepository         { return &documentRepo{q: r.q} }

// limitOffset normaliza paginación.
func limitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
