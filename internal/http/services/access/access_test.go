package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

func TestResolveResidence(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	syndic, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "s@x.ma", Role: repository.RoleSyndic})
	require.NoError(t, err)
	resident, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "r@x.ma", Role: repository.RoleResident})
	require.NoError(t, err)
	pending, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "p@x.ma", Role: repository.RoleResident})
	require.NoError(t, err)
	lonely, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "l@x.ma", Role: repository.RoleGuard})
	require.NoError(t, err)

	res, err := st.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Les Palmiers", SyndicID: &syndic.ID})
	require.NoError(t, err)
	other, err := st.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Atlas"})
	require.NoError(t, err)

	_, err = st.Links().Create(ctx, repository.CreateLinkInput{ProfileID: resident.ID, ResidenceID: res.ID, Apartment: "A1", Verified: true})
	require.NoError(t, err)
	_, err = st.Links().Create(ctx, repository.CreateLinkInput{ProfileID: pending.ID, ResidenceID: res.ID, Apartment: "A2"})
	require.NoError(t, err)

	r := NewResolver(st)

	got, err := r.ResolveResidence(ctx, syndic.ID, repository.RoleSyndic, "")
	require.NoError(t, err)
	assert.Equal(t, res.ID, got)

	_, err = r.ResolveResidence(ctx, syndic.ID, repository.RoleSyndic, other.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	got, err = r.ResolveResidence(ctx, resident.ID, repository.RoleResident, "")
	require.NoError(t, err)
	assert.Equal(t, res.ID, got)

	_, err = r.ResolveResidence(ctx, pending.ID, repository.RoleResident, "")
	assert.ErrorIs(t, err, ErrNotVerified)

	_, err = r.ResolveResidence(ctx, lonely.ID, repository.RoleGuard, "")
	assert.ErrorIs(t, err, ErrResidenceRequired)

	_, err = r.ResolveResidence(ctx, "admin", repository.RoleAdmin, "")
	assert.ErrorIs(t, err, ErrResidenceRequired)

	got, err = r.ResolveResidence(ctx, "admin", repository.RoleAdmin, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got)

	_, err = r.ResolveResidence(ctx, "admin", repository.RoleAdmin, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScope(t *testing.T) {
	s := Scope{UserID: "u1", Role: repository.RoleResident}
	assert.True(t, s.IsResident())
	assert.False(t, s.Manages())
	assert.Equal(t, "u1", s.OwnerFilter())

	s.Role = repository.RoleGuard
	assert.Equal(t, "", s.OwnerFilter())
	assert.False(t, s.Manages())
}
