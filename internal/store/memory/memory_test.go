package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/store"
)

func seed(t *testing.T, s *Store) (*repository.Profile, *repository.Residence) {
	t.Helper()
	ctx := context.Background()
	p, err := s.Profiles().Create(ctx, repository.CreateProfileInput{
		Email: "Ana@Example.com", FullName: "Ana", Role: repository.RoleResident,
	})
	require.NoError(t, err)
	res, err := s.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Les Jardins", City: "Rabat"})
	require.NoError(t, err)
	return p, res
}

func TestProfiles_EmailIsNormalizedAndUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, _ := seed(t, s)

	assert.Equal(t, "ana@example.com", p.Email)

	got, err := s.Profiles().GetByEmail(ctx, "  ANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.Profiles().Create(ctx, repository.CreateProfileInput{Email: "ana@example.com", Role: repository.RoleResident})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestResidences_OneSyndicPerResidence(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, res := seed(t, s)

	require.NoError(t, s.Residences().SetSyndic(ctx, res.ID, p.ID))

	other, err := s.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Atlas"})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Residences().SetSyndic(ctx, other.ID, p.ID), repository.ErrConflict)

	got, err := s.Residences().GetBySyndic(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
}

func TestLinks_UniquePerResidence(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, res := seed(t, s)

	_, err := s.Links().Create(ctx, repository.CreateLinkInput{ProfileID: p.ID, ResidenceID: res.ID, Apartment: "A1"})
	require.NoError(t, err)
	_, err = s.Links().Create(ctx, repository.CreateLinkInput{ProfileID: p.ID, ResidenceID: res.ID, Apartment: "B2"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	rows, err := s.Links().ListByResidence(ctx, res.ID, repository.RosterFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].FullName)
}

func TestFees_ListedOldestDueFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, res := seed(t, s)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []int{20, 5, 12} {
		_, err := s.Fees().Create(ctx, repository.CreateFeeInput{
			ResidenceID: res.ID, ProfileID: p.ID, Title: "fee", Amount: money.FromUnits(10),
			DueDate: base.AddDate(0, 0, d),
		})
		require.NoError(t, err)
	}

	fees, err := s.Fees().List(ctx, repository.ObligationFilter{ResidenceID: res.ID})
	require.NoError(t, err)
	require.Len(t, fees, 3)
	assert.Equal(t, 6, fees[0].DueDate.Day())
	assert.Equal(t, 13, fees[1].DueDate.Day())
	assert.Equal(t, 21, fees[2].DueDate.Day())
}

func TestContributions_DuplicatePeriodConflicts(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, res := seed(t, s)

	in := repository.CreateContributionInput{ResidenceID: res.ID, ProfileID: p.ID, Period: "2025-03", Amount: money.FromUnits(300)}
	_, err := s.Contributions().Create(ctx, in)
	require.NoError(t, err)
	_, err = s.Contributions().Create(ctx, in)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestPayments_OnlyPendingCanBeReviewed(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, res := seed(t, s)

	pay, err := s.Payments().Create(ctx, repository.CreatePaymentInput{
		ResidenceID: res.ID, ProfileID: p.ID, Amount: money.FromUnits(100), Method: repository.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, repository.PaymentPending, pay.Status)

	require.NoError(t, s.Payments().MarkVerified(ctx, pay.ID, "syndic-1", 0, time.Now()))
	assert.ErrorIs(t, s.Payments().MarkRejected(ctx, pay.ID, "syndic-1", "dup", time.Now()), repository.ErrConflict)

	_, err = s.Payments().Create(ctx, repository.CreatePaymentInput{
		ResidenceID: res.ID, ProfileID: p.ID, Amount: 0, Method: repository.MethodCash,
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, res := seed(t, s)

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Repositories) error {
		if err := tx.Profiles().SetRole(ctx, p.ID, repository.RoleSyndic); err != nil {
			return err
		}
		if err := tx.Residences().SetSyndic(ctx, res.ID, p.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Profiles().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.RoleResident, got.Role)

	r, err := s.Residences().GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Nil(t, r.SyndicID)
}

func TestInTx_Commits(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, _ := seed(t, s)

	require.NoError(t, s.InTx(ctx, func(tx store.Repositories) error {
		return tx.Profiles().SetRole(ctx, p.ID, repository.RoleGuard)
	}))

	got, err := s.Profiles().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.RoleGuard, got.Role)
}

func TestComplaints_TerminalCannotChange(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, res := seed(t, s)

	c, err := s.Complaints().Create(ctx, repository.CreateComplaintInput{ResidenceID: res.ID, ProfileID: p.ID, Subject: "Ruido"})
	require.NoError(t, err)
	require.NoError(t, s.Complaints().Respond(ctx, c.ID, repository.ComplaintResolved, "ok", time.Now()))
	assert.ErrorIs(t, s.Complaints().Respond(ctx, c.ID, repository.ComplaintInReview, "", time.Now()), repository.ErrInvalidTransition)
}

func TestDocuments_OnePendingPerProfile(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, _ := seed(t, s)

	in := repository.CreateDocumentInput{ProfileID: p.ID, ResidenceName: "Atlas", FileKey: "docs/a.pdf"}
	doc, err := s.Documents().Create(ctx, in)
	require.NoError(t, err)
	_, err = s.Documents().Create(ctx, in)
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, s.Documents().Review(ctx, doc.ID, repository.DocumentReview{
		Status: repository.DocumentRejected, ReviewerID: "admin", At: time.Now(),
	}))
	assert.ErrorIs(t, s.Documents().Review(ctx, doc.ID, repository.DocumentReview{
		Status: repository.DocumentApproved, ReviewerID: "admin", At: time.Now(),
	}), repository.ErrConflict)

	_, err = s.Documents().Create(ctx, in)
	assert.NoError(t, err)
}

func TestOpen_RegisteredDriver(t *testing.T) {
	s, err := store.Open(context.Background(), store.Config{Driver: DriverName})
	require.NoError(t, err)
	assert.Equal(t, DriverName, s.Driver())

	_, err = store.Open(context.Background(), store.Config{Driver: "nope"})
	assert.Error(t, err)
}
