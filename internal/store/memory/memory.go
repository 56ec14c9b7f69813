// Package memory implementa store.Store en memoria.
// Se usa como driver de desarrollo y como fixture en los tests de servicios.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/store"
)

// DriverName es el nombre con el que se registra el driver.
const DriverName = "memory"

func init() {
	store.RegisterDriver(DriverName, func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return New(), nil
	})
}

type data struct {
	profiles      map[string]repository.Profile
	residences    map[string]repository.Residence
	links         map[string]repository.ProfileResidence
	fees          map[string]repository.Fee
	contributions map[string]repository.Contribution
	payments      map[string]repository.Payment
	allocations   map[string][]repository.PaymentAllocation
	expenses      map[string]repository.Expense
	incidents     map[string]repository.Incident
	complaints    map[string]repository.Complaint
	documents     map[string]repository.DocumentSubmission
}

func newData() *data {
	return &data{
		profiles:      map[string]repository.Profile{},
		residences:    map[string]repository.Residence{},
		links:         map[string]repository.ProfileResidence{},
		fees:          map[string]repository.Fee{},
		contributions: map[string]repository.Contribution{},
		payments:      map[string]repository.Payment{},
		allocations:   map[string][]repository.PaymentAllocation{},
		expenses:      map[string]repository.Expense{},
		incidents:     map[string]repository.Incident{},
		complaints:    map[string]repository.Complaint{},
		documents:     map[string]repository.DocumentSubmission{},
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *data) clone() *data {
	allocs := make(map[string][]repository.PaymentAllocation, len(d.allocations))
	for k, v := range d.allocations {
		allocs[k] = append([]repository.PaymentAllocation(nil), v...)
	}
	return &data{
		profiles:      cloneMap(d.profiles),
		residences:    cloneMap(d.residences),
		links:         cloneMap(d.links),
		fees:          cloneMap(d.fees),
		contributions: cloneMap(d.contributions),
		payments:      cloneMap(d.payments),
		allocations:   allocs,
		expenses:      cloneMap(d.expenses),
		incidents:     cloneMap(d.incidents),
		complaints:    cloneMap(d.complaints),
		documents:     cloneMap(d.documents),
	}
}

// Store es un store en memoria seguro para uso concurrente.
//
// InTx serializa las transacciones y restaura un snapshot de los datos si fn
// falla. Las escrituras fuera de transacción que ocurran durante un rollback
// se pierden; para un driver de desarrollo es aceptable.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data

	// Now permite fijar el reloj en tests.
	Now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New crea un store vacío.
func New() *Store {
	return &Store{d: newData(), Now: time.Now}
}

func (s *Store) now() time.Time { return s.Now().UTC() }

func newID() string { return uuid.NewString() }

func (s *Store) Driver() string                 { return DriverName }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close() error                   { return nil }

func (s *Store) Profiles() repository.ProfileRepository           { return profileRepo{s} }
func (s *Store) Residences() repository.ResidenceRepository       { return residenceRepo{s} }
func (s *Store) Links() repository.ProfileResidenceRepository     { return linkRepo{s} }
func (s *Store) Fees() repository.FeeRepository                   { return feeRepo{s} }
func (s *Store) Contributions() repository.ContributionRepository { return contributionRepo{s} }
func (s *Store) Payments() repository.PaymentRepository           { return paymentRepo{s} }
func (s *Store) Expenses() repository.ExpenseRepository           { return expenseRepo{s} }
func (s *Store) Incidents() repository.IncidentRepository         { return incidentRepo{s} }
func (s *Store) Complaints() repository.ComplaintRepository       { return complaintRepo{s} }
func (s *Store) Documents() repository.DocumentRepository         { return documentRepo{s} }

// InTx ejecuta fn con los mismos repositorios; si falla restaura el snapshot.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(d *data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.d)
}

func (s *Store) write(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func paginate[T any](items []T, limit, offset, def, max int) []T {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
