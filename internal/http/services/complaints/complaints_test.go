package complaints

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

func TestComplaints(t *testing.T) {
	ctx := context.Background()
	svc := New(Deps{Store: memory.New()})

	resident := access.Scope{UserID: "u", Role: repository.RoleResident, ResidenceID: "r1"}
	neighbour := access.Scope{UserID: "n", Role: repository.RoleResident, ResidenceID: "r1"}
	syndic := access.Scope{UserID: "s", Role: repository.RoleSyndic, ResidenceID: "r1"}

	_, err := svc.File(ctx, resident, dto.FileComplaintRequest{Subject: "Bruit"})
	assert.ErrorIs(t, err, ErrMissingFields)

	c, err := svc.File(ctx, resident, dto.FileComplaintRequest{Subject: "Bruit", Message: "Travaux le dimanche"})
	require.NoError(t, err)
	assert.Equal(t, "pending", c.Status)

	theirs, err := svc.List(ctx, neighbour, "")
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = svc.Respond(ctx, syndic, c.ID, dto.RespondComplaintRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := svc.Respond(ctx, syndic, c.ID, dto.RespondComplaintRequest{Status: "in_review", Response: "On regarde"})
	require.NoError(t, err)
	assert.Equal(t, "in_review", got.Status)

	got, err = svc.Respond(ctx, syndic, c.ID, dto.RespondComplaintRequest{Status: "resolved", Response: "Réglé"})
	require.NoError(t, err)
	require.NotNil(t, got.RespondedAt)

	_, err = svc.Respond(ctx, syndic, c.ID, dto.RespondComplaintRequest{Status: "rejected"})
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)

	elsewhere := access.Scope{UserID: "x", Role: repository.RoleSyndic, ResidenceID: "r2"}
	_, err = svc.Respond(ctx, elsewhere, c.ID, dto.RespondComplaintRequest{Status: "in_review"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	resolved, err := svc.List(ctx, syndic, "resolved")
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
}
