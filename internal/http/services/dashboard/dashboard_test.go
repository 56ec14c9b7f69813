package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

var now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func TestComplianceRate(t *testing.T) {
	assert.Equal(t, 50.0, ComplianceRate(2, 4))
	assert.Equal(t, 0.0, ComplianceRate(0, 0))
	assert.Equal(t, 33.33, ComplianceRate(1, 3))
	assert.Equal(t, 66.67, ComplianceRate(2, 3))
	assert.Equal(t, 100.0, ComplianceRate(5, 5))
}

type fixture struct {
	st       *memory.Store
	resID    string
	resident string
}

// seed: un residente con 4 cuotas, 2 pagadas y 1 vencida.
func seed(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	st.Now = func() time.Time { return now }

	res, err := st.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Les Palmiers"})
	require.NoError(t, err)
	r, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "r@x.ma", Role: repository.RoleResident})
	require.NoError(t, err)
	_, err = st.Links().Create(ctx, repository.CreateLinkInput{ProfileID: r.ID, ResidenceID: res.ID, Apartment: "A1", Verified: true})
	require.NoError(t, err)
	p2, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "p@x.ma", Role: repository.RoleResident})
	require.NoError(t, err)
	_, err = st.Links().Create(ctx, repository.CreateLinkInput{ProfileID: p2.ID, ResidenceID: res.ID, Apartment: "B1"})
	require.NoError(t, err)

	mkFee := func(title string, due time.Time, paid bool) {
		fe, err := st.Fees().Create(ctx, repository.CreateFeeInput{ResidenceID: res.ID, ProfileID: r.ID, Title: title,
			Amount: money.FromUnits(100), DueDate: due})
		require.NoError(t, err)
		if paid {
			at := now
			require.NoError(t, st.Fees().UpdatePayment(ctx, fe.ID, repository.PaymentUpdate{
				AmountPaid: fe.Amount, Status: repository.ObligationPaid, PaidAt: &at}))
		}
	}
	mkFee("Jan", now.AddDate(0, -2, 0), true)
	mkFee("Feb", now.AddDate(0, -1, 0), true)
	mkFee("Mar", now.AddDate(0, 0, -1), false)
	mkFee("Apr", now.AddDate(0, 1, 0), false)

	_, err = st.Expenses().Create(ctx, repository.CreateExpenseInput{ResidenceID: res.ID, Category: "cleaning",
		Amount: money.FromUnits(50), SpentAt: now})
	require.NoError(t, err)
	_, err = st.Incidents().Create(ctx, repository.CreateIncidentInput{ResidenceID: res.ID, ReporterID: r.ID, Title: "Fuite"})
	require.NoError(t, err)

	pay, err := st.Payments().Create(ctx, repository.CreatePaymentInput{ResidenceID: res.ID, ProfileID: r.ID,
		Amount: money.FromUnits(200), Method: repository.MethodCash})
	require.NoError(t, err)
	require.NoError(t, st.Payments().MarkVerified(ctx, pay.ID, "s", 0, now))
	_, err = st.Payments().Create(ctx, repository.CreatePaymentInput{ResidenceID: res.ID, ProfileID: r.ID,
		Amount: money.FromUnits(10), Method: repository.MethodCash})
	require.NoError(t, err)

	return &fixture{st: st, resID: res.ID, resident: r.ID}
}

func TestResidenceDashboard(t *testing.T) {
	ctx := context.Background()
	f := seed(t)
	m := metrics.New()
	svc := New(Deps{Store: f.st, Cache: cache.NewMemory(time.Minute), Metrics: m, Now: func() time.Time { return now }})

	d, err := svc.Residence(ctx, f.resID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.ResidentsTotal)
	assert.Equal(t, 1, d.ResidentsVerified)
	assert.Equal(t, 1, d.ResidentsPending)
	assert.Equal(t, money.FromUnits(400), d.Expected)
	assert.Equal(t, money.FromUnits(200), d.Collected)
	assert.Equal(t, money.FromUnits(200), d.Outstanding)
	assert.Equal(t, 1, d.OverdueCount)
	assert.Equal(t, 50.0, d.ComplianceRate)
	assert.Equal(t, money.FromUnits(150), d.Balance)
	assert.Equal(t, 1, d.OpenIncidents)
	assert.Equal(t, 1, d.PendingPayments)
	assert.Len(t, d.RecentPayments, 2)
	require.Len(t, d.Monthly, 6)
	assert.Equal(t, "2025-10", d.Monthly[0].Month)
	assert.Equal(t, "2026-03", d.Monthly[5].Month)
	assert.Equal(t, money.FromUnits(200), d.Monthly[5].Collected)

	again, err := svc.Residence(ctx, f.resID)
	require.NoError(t, err)
	assert.Equal(t, d.Collected, again.Collected)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DashboardBuilds.WithLabelValues("db")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DashboardBuilds.WithLabelValues("cache")))
}

func TestResidentDashboard(t *testing.T) {
	ctx := context.Background()
	f := seed(t)
	svc := New(Deps{Store: f.st, Now: func() time.Time { return now }})

	d, err := svc.Resident(ctx, access.Scope{UserID: f.resident, Role: repository.RoleResident, ResidenceID: f.resID})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Paid)
	assert.Equal(t, 1, d.Overdue)
	assert.Equal(t, 1, d.Unpaid)
	assert.Equal(t, 50.0, d.ComplianceRate)
	assert.Equal(t, money.FromUnits(200), d.Outstanding)
	require.NotNil(t, d.NextDue)
	assert.Equal(t, "Mar", d.NextDue.Label)
	assert.Equal(t, 1, d.OpenIncidents)
}

func TestAdminDashboard(t *testing.T) {
	f := seed(t)
	svc := New(Deps{Store: f.st, Now: func() time.Time { return now }})

	d, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Residences)
	assert.Equal(t, 2, d.UsersByRole["resident"])
	assert.Equal(t, 0, d.PendingDocuments)
}
