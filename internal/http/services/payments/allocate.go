package payments

import (
	"sort"
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

// Obligation es una cuota o contribución pendiente vista por el algoritmo de imputación.
type Obligation struct {
	Kind      repository.ObligationKind
	ID        string
	Label     string
	DueDate   time.Time
	CreatedAt time.Time
	Amount    money.Amount
	Paid      money.Amount
}

func (o Obligation) outstanding() money.Amount {
	if o.Paid >= o.Amount {
		return 0
	}
	return o.Amount - o.Paid
}

// Allocation es lo imputado a una obligación y su estado resultante.
type Allocation struct {
	Kind         repository.ObligationKind
	ObligationID string
	Label        string
	Amount       money.Amount
	PaidAfter    money.Amount
	Status       repository.ObligationStatus
}

// AllocationResult resultado de imputar un pago.
type AllocationResult struct {
	Allocations []Allocation
	Applied     money.Amount
	Credit      money.Amount // saldo a favor que queda para el próximo pago
}

// Allocate reparte amount + credit sobre las obligaciones, de la más antigua
// (DueDate, luego CreatedAt) a la más nueva. Cada una recibe min(pool, pendiente).
// Lo que sobra queda como crédito. No modifica obligations.
func Allocate(amount, credit money.Amount, obligations []Obligation) AllocationResult {
	pool := amount + credit
	if pool < 0 {
		pool = 0
	}

	ordered := make([]Obligation, len(obligations))
	copy(ordered, obligations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].DueDate.Equal(ordered[j].DueDate) {
			return ordered[i].DueDate.Before(ordered[j].DueDate)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var res AllocationResult
	for _, o := range ordered {
		if pool == 0 {
			break
		}
		due := o.outstanding()
		if due == 0 {
			continue
		}
		take := money.Min(pool, due)
		pool -= take
		res.Applied += take
		paid := o.Paid + take
		res.Allocations = append(res.Allocations, Allocation{
			Kind:         o.Kind,
			ObligationID: o.ID,
			Label:        o.Label,
			Amount:       take,
			PaidAfter:    paid,
			Status:       repository.StatusFor(o.Amount, paid),
		})
	}
	res.Credit = pool
	return res
}
