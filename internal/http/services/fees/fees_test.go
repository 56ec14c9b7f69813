package fees

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

var now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	st     *memory.Store
	svc    Service
	syndic access.Scope
	a, b   string // residentes verificados
	c      string // pendiente de verificación
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	st.Now = func() time.Time { return now }

	res, err := st.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Atlas"})
	require.NoError(t, err)

	f := &fixture{st: st, svc: New(Deps{Store: st, Now: func() time.Time { return now }})}
	f.syndic = access.Scope{UserID: "s", Role: repository.RoleSyndic, ResidenceID: res.ID}

	mk := func(mail, apt string, verified bool) string {
		p, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: mail, Role: repository.RoleResident})
		require.NoError(t, err)
		_, err = st.Links().Create(ctx, repository.CreateLinkInput{ProfileID: p.ID, ResidenceID: res.ID, Apartment: apt, Verified: verified})
		require.NoError(t, err)
		return p.ID
	}
	f.a = mk("a@x.ma", "A1", true)
	f.b = mk("b@x.ma", "B1", true)
	f.c = mk("c@x.ma", "C1", false)
	return f
}

func TestCreateFee(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.CreateFee(ctx, f.syndic, dto.CreateFeeRequest{Title: "Peinture", Amount: 100, DueDate: "2026-04-01"})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = f.svc.CreateFee(ctx, f.syndic, dto.CreateFeeRequest{ProfileID: f.a, AllResidents: true, Title: "X", DueDate: "2026-04-01"})
	assert.ErrorIs(t, err, ErrAmbiguousTarget)
	_, err = f.svc.CreateFee(ctx, f.syndic, dto.CreateFeeRequest{ProfileID: f.a, Title: "X", Amount: -1, DueDate: "2026-04-01"})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.svc.CreateFee(ctx, f.syndic, dto.CreateFeeRequest{ProfileID: f.c, Title: "X", Amount: 100, DueDate: "2026-04-01"})
	assert.ErrorIs(t, err, ErrNotMember)

	all, err := f.svc.CreateFee(ctx, f.syndic, dto.CreateFeeRequest{AllResidents: true, Title: "Peinture",
		Amount: money.FromUnits(450), DueDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "overdue", all[0].Status)

	overdue, err := f.svc.ListFees(ctx, f.syndic, ListFilter{Status: "overdue"})
	require.NoError(t, err)
	assert.Len(t, overdue, 2)

	// el residente sólo ve lo suyo
	mine, err := f.svc.ListFees(ctx, access.Scope{UserID: f.a, Role: repository.RoleResident, ResidenceID: f.syndic.ResidenceID}, ListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.a, mine[0].ProfileID)

	_, err = f.svc.ListFees(ctx, f.syndic, ListFilter{Status: "weird"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateFeeStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.svc.CreateFee(ctx, f.syndic, dto.CreateFeeRequest{ProfileID: f.a, Title: "Ascenseur",
		Amount: money.FromUnits(600), DueDate: "2026-04-01"})
	require.NoError(t, err)
	id := created[0].ID

	paid, err := f.svc.UpdateFeeStatus(ctx, f.syndic, id, "paid")
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, money.FromUnits(600), paid.AmountPaid)
	require.NotNil(t, paid.PaidAt)

	unpaid, err := f.svc.UpdateFeeStatus(ctx, f.syndic, id, "unpaid")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), unpaid.AmountPaid)
	assert.Nil(t, unpaid.PaidAt)

	_, err = f.svc.UpdateFeeStatus(ctx, f.syndic, id, "partial")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	other := access.Scope{UserID: "x", Role: repository.RoleSyndic, ResidenceID: "other"}
	assert.ErrorIs(t, f.svc.DeleteFee(ctx, other, id), repository.ErrNotFound)
	require.NoError(t, f.svc.DeleteFee(ctx, f.syndic, id))
}

func TestFeeWithAllocations_CannotBeResetOrDeleted(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.svc.CreateFee(ctx, f.syndic, dto.CreateFeeRequest{ProfileID: f.a, Title: "Toiture",
		Amount: money.FromUnits(600), DueDate: "2026-04-01"})
	require.NoError(t, err)
	id := created[0].ID

	p, err := f.st.Payments().Create(ctx, repository.CreatePaymentInput{ResidenceID: f.syndic.ResidenceID,
		ProfileID: f.a, Amount: money.FromUnits(300), Method: repository.MethodCash})
	require.NoError(t, err)
	require.NoError(t, f.st.Payments().AddAllocations(ctx, []repository.PaymentAllocation{
		{PaymentID: p.ID, Kind: repository.KindFee, ObligationID: id, Amount: money.FromUnits(300)},
	}))
	require.NoError(t, f.st.Fees().UpdatePayment(ctx, id, repository.PaymentUpdate{
		AmountPaid: money.FromUnits(300), Status: repository.ObligationPartial}))

	_, err = f.svc.UpdateFeeStatus(ctx, f.syndic, id, "unpaid")
	assert.ErrorIs(t, err, ErrHasAllocations)
	assert.ErrorIs(t, f.svc.DeleteFee(ctx, f.syndic, id), ErrHasAllocations)

	fe, err := f.st.Fees().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, money.FromUnits(300), fe.AmountPaid)
	assert.Equal(t, repository.ObligationPartial, fe.Status)

	// marcarla pagada a mano sigue permitido
	paid, err := f.svc.UpdateFeeStatus(ctx, f.syndic, id, "paid")
	require.NoError(t, err)
	assert.Equal(t, money.FromUnits(600), paid.AmountPaid)
}

func TestGenerateContributions_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.GenerateContributions(ctx, f.syndic, dto.GenerateContributionsRequest{Period: "2026-13", Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	req := dto.GenerateContributionsRequest{Period: "2026-04", Amount: money.FromUnits(300), DueDay: 31}
	got, err := f.svc.GenerateContributions(ctx, f.syndic, req)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Created)
	assert.Equal(t, 0, got.Skipped)

	got, err = f.svc.GenerateContributions(ctx, f.syndic, req)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Created)
	assert.Equal(t, 2, got.Skipped)

	list, err := f.svc.ListContributions(ctx, f.syndic, ListFilter{Period: "2026-04"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 28, list[0].DueDate.Day())
	assert.Equal(t, "unpaid", list[0].Status)
}
