package residences

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

func TestAssignSyndic(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := New(Deps{Store: st})

	res, err := svc.Create(ctx, dto.ResidenceRequest{Name: " Les Palmiers ", City: "Casablanca"})
	require.NoError(t, err)
	assert.Equal(t, "Les Palmiers", res.Name)

	a, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "a@x.ma", Role: repository.RoleResident})
	require.NoError(t, err)
	b, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "b@x.ma", Role: repository.RoleResident})
	require.NoError(t, err)
	admin, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "admin@x.ma", Role: repository.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.AssignSyndic(ctx, res.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidRole)

	got, err := svc.AssignSyndic(ctx, res.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SyndicID)
	assert.Equal(t, a.ID, *got.SyndicID)

	p, err := st.Profiles().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.RoleSyndic, p.Role)

	// idempotente para el mismo perfil
	_, err = svc.AssignSyndic(ctx, res.ID, a.ID)
	require.NoError(t, err)

	_, err = svc.AssignSyndic(ctx, res.ID, b.ID)
	assert.ErrorIs(t, err, ErrSyndicTaken)
	p, err = st.Profiles().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.RoleResident, p.Role)

	// a ya administra Les Palmiers
	other, err := svc.Create(ctx, dto.ResidenceRequest{Name: "Atlas"})
	require.NoError(t, err)
	_, err = svc.AssignSyndic(ctx, other.ID, a.ID)
	assert.ErrorIs(t, err, ErrSyndicTaken)
}

func TestUpdateAndJoin(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := New(Deps{Store: st})

	res, err := svc.Create(ctx, dto.ResidenceRequest{Name: "Atlas"})
	require.NoError(t, err)

	city := "Rabat"
	got, err := svc.Update(ctx, res.ID, dto.ResidencePatch{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Rabat", got.City)
	assert.Equal(t, "Atlas", got.Name)

	empty := " "
	_, err = svc.Update(ctx, res.ID, dto.ResidencePatch{Name: &empty})
	assert.ErrorIs(t, err, ErrMissingFields)

	p, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "r@x.ma", Role: repository.RoleResident})
	require.NoError(t, err)

	link, err := svc.RequestJoin(ctx, p.ID, res.ID, dto.JoinRequest{Apartment: "B12"})
	require.NoError(t, err)
	assert.False(t, link.Verified)
	assert.Equal(t, "B12", link.Apartment)

	_, err = svc.RequestJoin(ctx, p.ID, res.ID, dto.JoinRequest{Apartment: "B12"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = svc.RequestJoin(ctx, p.ID, "nope", dto.JoinRequest{Apartment: "B12"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
