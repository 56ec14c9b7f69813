package incidents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

func TestIncidentLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	st := memory.New()
	svc := New(Deps{Store: st, Now: func() time.Time { return now }})

	guard := access.Scope{UserID: "g", Role: repository.RoleGuard, ResidenceID: "r1"}
	resident := access.Scope{UserID: "u", Role: repository.RoleResident, ResidenceID: "r1"}
	syndic := access.Scope{UserID: "s", Role: repository.RoleSyndic, ResidenceID: "r1"}

	_, err := svc.Report(ctx, guard, dto.ReportIncidentRequest{Title: "  "})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Report(ctx, guard, dto.ReportIncidentRequest{Title: "Fuite", Priority: "asap"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	byGuard, err := svc.Report(ctx, guard, dto.ReportIncidentRequest{Title: "Portail bloqué", Priority: "HIGH"})
	require.NoError(t, err)
	assert.Equal(t, "high", byGuard.Priority)
	assert.Equal(t, "open", byGuard.Status)

	mine, err := svc.Report(ctx, resident, dto.ReportIncidentRequest{Title: "Fuite", Location: "Parking"})
	require.NoError(t, err)
	assert.Equal(t, "medium", mine.Priority)

	all, err := svc.List(ctx, syndic, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	own, err := svc.List(ctx, resident, "")
	require.NoError(t, err)
	assert.Len(t, own, 1)
	_, err = svc.Get(ctx, resident, byGuard.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, syndic, mine.ID, "resolved")
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	_, err = svc.UpdateStatus(ctx, syndic, mine.ID, "closed")
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)

	got, err := svc.UpdateStatus(ctx, syndic, mine.ID, "in_progress")
	require.NoError(t, err)
	assert.Nil(t, got.ResolvedAt)
	got, err = svc.UpdateStatus(ctx, syndic, mine.ID, "resolved")
	require.NoError(t, err)
	require.NotNil(t, got.ResolvedAt)
	resolvedAt := *got.ResolvedAt

	_, err = svc.UpdateStatus(ctx, syndic, mine.ID, "open")
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)

	got, err = svc.UpdateStatus(ctx, syndic, mine.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Status)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, resolvedAt.Equal(*got.ResolvedAt))

	_, err = svc.UpdateStatus(ctx, syndic, mine.ID, "in_progress")
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	_, err = svc.UpdateStatus(ctx, syndic, mine.ID, "done")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err = svc.UpdateStatus(ctx, syndic, byGuard.ID, "in_progress")
	require.NoError(t, err)
	assert.Nil(t, got.ResolvedAt)
	_, err = svc.UpdateStatus(ctx, syndic, byGuard.ID, "open")
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestIncidentStatus_CanTransition(t *testing.T) {
	ok := map[repository.IncidentStatus]repository.IncidentStatus{
		repository.IncidentOpen:       repository.IncidentInProgress,
		repository.IncidentInProgress: repository.IncidentResolved,
		repository.IncidentResolved:   repository.IncidentClosed,
	}
	all := []repository.IncidentStatus{repository.IncidentOpen, repository.IncidentInProgress,
		repository.IncidentResolved, repository.IncidentClosed}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, ok[from] == to, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}
