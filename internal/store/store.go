// Package store provee el acceso a datos del sistema: un registry de drivers
// (postgres, memory) y la interfaz Store que expone los repositorios del dominio.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

// Repositories agrupa los repositorios del dominio.
// Dentro de InTx todas las operaciones comparten la misma transacción.
type Repositories interface {
	Profiles() repository.ProfileRepository
	Residences() repository.ResidenceRepository
	Links() repository.ProfileResidenceRepository
	Fees() repository.FeeRepository
	Contributions() repository.ContributionRepository
	Payments() repository.PaymentRepository
	Expenses() repository.ExpenseRepository
	Incidents() repository.IncidentRepository
	Complaints() repository.ComplaintRepository
	Documents() repository.DocumentRepository
}

// Store es una conexión activa a un almacenamiento.
type Store interface {
	Repositories

	// InTx ejecuta fn en una transacción. Si fn retorna error se hace rollback.
	InTx(ctx context.Context, fn func(tx Repositories) error) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	// Driver retorna el nombre del driver ("postgres", "memory").
	Driver() string
}

// Migratable es implementada por los stores que soportan migraciones SQL.
type Migratable interface {
	Migrate(ctx context.Context) (applied []string, err error)
	MigrationStatus(ctx context.Context) ([]MigrationInfo, error)
}

// MigrationInfo estado de una migración.
type MigrationInfo struct {
	Version int
	Name    string
	Applied bool
}

// Config configuración para abrir un store.
type Config struct {
	// Driver: "postgres" o "memory"
	Driver string

	// DSN connection string (postgres)
	DSN string

	// Pool settings
	MaxOpenConns int
	MinConns     int
}

// OpenFunc construye un Store a partir de la config.
type OpenFunc func(ctx context.Context, cfg Config) (Store, error)

var (
	driversMu sync.RWMutex
	drivers   = map[string]OpenFunc{}
)

// RegisterDriver registra un driver. Los drivers se registran en su init().
func RegisterDriver(name string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if open == nil {
		panic("store: RegisterDriver open is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("store: RegisterDriver called twice for driver " + name)
	}
	drivers[name] = open
}

// Drivers retorna los nombres de drivers registrados, ordenados.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	out := make([]string, 0, len(drivers))
	for name := range drivers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open abre un store con el driver indicado en la config.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driversMu.RLock()
	open, ok := drivers[cfg.Driver]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unknown driver %q (registered: %v)", cfg.Driver, Drivers())
	}
	s, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Driver, err)
	}
	return s, nil
}
