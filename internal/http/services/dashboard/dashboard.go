// Package dashboard arma los tableros de syndic, residente y admin.
// Las lecturas se lanzan en paralelo con errgroup y el resultado se cachea.
package dashboard

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/store"
)

const (
	tracerName     = "github.com/dropDatabas3/syndik/dashboard"
	recentPayments = 5
	monthsBack     = 6
)

type Service interface {
	// Residence es la vista de syndic, guardia o admin con X-Residence-ID.
	Residence(ctx context.Context, residenceID string) (*dto.ResidenceDashboard, error)
	Resident(ctx context.Context, scope access.Scope) (*dto.ResidentDashboard, error)
	Admin(ctx context.Context) (*dto.AdminDashboard, error)
}

type Deps struct {
	Store   store.Store
	Cache   cache.Client // nil = sin cache
	TTL     time.Duration
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type service struct {
	deps   Deps
	tracer trace.Tracer
}

func New(d Deps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.TTL <= 0 {
		d.TTL = 30 * time.Second
	}
	return &service{deps: d, tracer: otel.Tracer(tracerName)}
}

// ComplianceRate es paid/total*100 redondeado a 2 decimales; 0 si no hay obligaciones.
func ComplianceRate(paid, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(paid)*10000/float64(total)) / 100
}

// cached resuelve key desde cache o llama a build y guarda el resultado.
// Un cache caído degrada a lectura directa.
func cached[T any](ctx context.Context, s *service, span trace.Span, key string, build func(context.Context) (*T, error)) (*T, error) {
	log := logger.From(ctx)
	if s.deps.Cache != nil {
		v, err := cache.GetJSON[T](ctx, s.deps.Cache, key)
		if err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			s.count("cache")
			return &v, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warn("dashboard cache read failed", logger.Err(err))
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	out, err := build(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard build failed")
		return nil, err
	}
	s.count("db")
	if s.deps.Cache != nil {
		if err := cache.SetJSON(ctx, s.deps.Cache, key, out, s.deps.TTL); err != nil {
			log.Warn("dashboard cache write failed", logger.Err(err))
		}
	}
	return out, nil
}

func (s *service) count(source string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.DashboardBuilds.WithLabelValues(source).Inc()
	}
}

func (s *service) Residence(ctx context.Context, residenceID string) (*dto.ResidenceDashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.residence", trace.WithAttributes(attribute.String("residence.id", residenceID)))
	defer span.End()

	return cached(ctx, s, span, "dashboard:residence:"+residenceID, func(ctx context.Context) (*dto.ResidenceDashboard, error) {
		return s.buildResidence(ctx, residenceID)
	})
}

func (s *service) buildResidence(ctx context.Context, residenceID string) (*dto.ResidenceDashboard, error) {
	now := s.deps.Now().UTC()
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthsBack - 1), 0)
	obligations := repository.ObligationFilter{ResidenceID: residenceID}

	var (
		roster     []repository.ResidentRow
		fees       []repository.Fee
		contribs   []repository.Contribution
		expenses   []repository.Expense
		incidents  []repository.Incident
		complaints []repository.Complaint
		pending    []repository.Payment
		recent     []repository.Payment
		verified   []repository.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		roster, err = s.deps.Store.Links().ListByResidence(gctx, residenceID, repository.RosterFilter{Role: repository.RoleResident})
		return err
	})
	g.Go(func() (err error) {
		fees, err = s.deps.Store.Fees().List(gctx, obligations)
		return err
	})
	g.Go(func() (err error) {
		contribs, err = s.deps.Store.Contributions().List(gctx, obligations)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.deps.Store.Expenses().List(gctx, repository.ExpenseFilter{ResidenceID: residenceID})
		return err
	})
	g.Go(func() (err error) {
		incidents, err = s.deps.Store.Incidents().List(gctx, repository.IncidentFilter{ResidenceID: residenceID, OnlyOpen: true})
		return err
	})
	g.Go(func() (err error) {
		complaints, err = s.deps.Store.Complaints().List(gctx, repository.ComplaintFilter{ResidenceID: residenceID, Status: repository.ComplaintPending})
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.deps.Store.Payments().List(gctx, repository.PaymentFilter{ResidenceID: residenceID, Status: repository.PaymentPending})
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.deps.Store.Payments().List(gctx, repository.PaymentFilter{ResidenceID: residenceID, Limit: recentPayments})
		return err
	})
	g.Go(func() (err error) {
		verified, err = s.deps.Store.Payments().List(gctx, repository.PaymentFilter{
			ResidenceID: residenceID, Status: repository.PaymentVerified, Since: &firstMonth,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ResidenceDashboard{
		ResidenceID:       residenceID,
		ResidentsTotal:    len(roster),
		OpenIncidents:     len(incidents),
		PendingComplaints: len(complaints),
		PendingPayments:   len(pending),
		RecentPayments:    make([]dto.PaymentResponse, 0, len(recent)),
		GeneratedAt:       now,
	}
	for _, r := range roster {
		if r.Verified {
			out.ResidentsVerified++
		}
	}
	out.ResidentsPending = out.ResidentsTotal - out.ResidentsVerified

	paid, total := 0, 0
	tally := func(amount, amountPaid, outstanding money.Amount, status repository.ObligationStatus, due time.Time) {
		total++
		out.Expected += amount
		out.Collected += amountPaid
		out.Outstanding += outstanding
		if status == repository.ObligationPaid {
			paid++
		}
		if repository.IsOverdue(status, due, now) {
			out.OverdueCount++
		}
	}
	for _, f := range fees {
		tally(f.Amount, f.AmountPaid, f.Outstanding(), f.Status, f.DueDate)
	}
	for _, c := range contribs {
		tally(c.Amount, c.AmountPaid, c.Outstanding(), c.Status, c.DueDate)
	}
	out.ComplianceRate = ComplianceRate(paid, total)

	for _, e := range expenses {
		out.ExpensesTotal += e.Amount
	}
	out.Balance = out.Collected - out.ExpensesTotal

	for _, p := range recent {
		out.RecentPayments = append(out.RecentPayments, dto.Payment(p, nil))
	}
	out.Monthly = monthlySeries(verified, firstMonth)
	return out, nil
}

// monthlySeries suma los pagos verificados por mes, desde first, siempre monthsBack puntos.
func monthlySeries(verified []repository.Payment, first time.Time) []dto.MonthlyPoint {
	series := make([]dto.MonthlyPoint, monthsBack)
	index := make(map[string]int, monthsBack)
	for i := range series {
		m := first.AddDate(0, i, 0).Format("2006-01")
		series[i].Month = m
		index[m] = i
	}
	for _, p := range verified {
		at := p.CreatedAt
		if p.VerifiedAt != nil {
			at = *p.VerifiedAt
		}
		if i, ok := index[at.UTC().Format("2006-01")]; ok {
			series[i].Collected += p.Amount
		}
	}
	return series
}

func (s *service) Resident(ctx context.Context, scope access.Scope) (*dto.ResidentDashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.resident", trace.WithAttributes(attribute.String("residence.id", scope.ResidenceID)))
	defer span.End()

	key := "dashboard:resident:" + scope.ResidenceID + ":" + scope.UserID
	return cached(ctx, s, span, key, func(ctx context.Context) (*dto.ResidentDashboard, error) {
		return s.buildResident(ctx, scope)
	})
}

func (s *service) buildResident(ctx context.Context, scope access.Scope) (*dto.ResidentDashboard, error) {
	now := s.deps.Now().UTC()
	mine := repository.ObligationFilter{ResidenceID: scope.ResidenceID, ProfileID: scope.UserID}

	var (
		link       *repository.ProfileResidence
		fees       []repository.Fee
		contribs   []repository.Contribution
		incidents  []repository.Incident
		complaints []repository.Complaint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		link, err = s.deps.Store.Links().Get(gctx, scope.UserID, scope.ResidenceID)
		return err
	})
	g.Go(func() (err error) {
		fees, err = s.deps.Store.Fees().List(gctx, mine)
		return err
	})
	g.Go(func() (err error) {
		contribs, err = s.deps.Store.Contributions().List(gctx, mine)
		return err
	})
	g.Go(func() (err error) {
		incidents, err = s.deps.Store.Incidents().List(gctx, repository.IncidentFilter{
			ResidenceID: scope.ResidenceID, ReporterID: scope.UserID, OnlyOpen: true,
		})
		return err
	})
	g.Go(func() (err error) {
		complaints, err = s.deps.Store.Complaints().List(gctx, repository.ComplaintFilter{ResidenceID: scope.ResidenceID, ProfileID: scope.UserID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ResidentDashboard{
		ResidenceID:   scope.ResidenceID,
		Credit:        link.CreditBalance,
		OpenIncidents: len(incidents),
		GeneratedAt:   now,
	}
	for _, c := range complaints {
		if !c.Status.Terminal() {
			out.OpenComplaints++
		}
	}

	var pendingDue []dto.NextDue
	tally := func(kind repository.ObligationKind, id, label string, status repository.ObligationStatus, due time.Time, outstanding money.Amount) {
		switch {
		case status == repository.ObligationPaid:
			out.Paid++
			return
		case repository.IsOverdue(status, due, now):
			out.Overdue++
		default:
			out.Unpaid++
		}
		out.Outstanding += outstanding
		pendingDue = append(pendingDue, dto.NextDue{Kind: string(kind), ID: id, Label: label, Amount: outstanding, DueDate: due})
	}
	for _, f := range fees {
		tally(repository.KindFee, f.ID, f.Title, f.Status, f.DueDate, f.Outstanding())
	}
	for _, c := range contribs {
		tally(repository.KindContribution, c.ID, "Contribution "+c.Period, c.Status, c.DueDate, c.Outstanding())
	}
	out.ComplianceRate = ComplianceRate(out.Paid, out.Paid+out.Unpaid+out.Overdue)

	if len(pendingDue) > 0 {
		sort.SliceStable(pendingDue, func(i, j int) bool { return pendingDue[i].DueDate.Before(pendingDue[j].DueDate) })
		next := pendingDue[0]
		out.NextDue = &next
	}
	return out, nil
}

func (s *service) Admin(ctx context.Context) (*dto.AdminDashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.admin")
	defer span.End()

	return cached(ctx, s, span, "dashboard:admin", func(ctx context.Context) (*dto.AdminDashboard, error) {
		var (
			residences int
			byRole     map[repository.Role]int
			docs       []repository.DocumentSubmission
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			residences, err = s.deps.Store.Residences().Count(gctx)
			return err
		})
		g.Go(func() (err error) {
			byRole, err = s.deps.Store.Profiles().CountByRole(gctx)
			return err
		})
		g.Go(func() (err error) {
			docs, err = s.deps.Store.Documents().List(gctx, repository.DocumentFilter{Status: repository.DocumentPending})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out := &dto.AdminDashboard{
			Residences:       residences,
			UsersByRole:      make(map[string]int, len(byRole)),
			PendingDocuments: len(docs),
			GeneratedAt:      s.deps.Now().UTC(),
		}
		for role, n := range byRole {
			out.UsersByRole[string(role)] = n
		}
		return out, nil
	})
}
