package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

var now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type fakeFiles struct {
	deleted []string
	failDel bool
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	if f.failDel {
		return errors.New("bucket unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFiles) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.test/" + key + "?sig=1", nil
}

func (f *fakeFiles) Driver() string { return "fake" }

type fixture struct {
	st      *memory.Store
	files   *fakeFiles
	mailer  *email.MockMailer
	metrics *metrics.Metrics
	svc     Service
	admin   access.Scope
	user    access.Scope
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	admin, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "admin@x.ma", Role: repository.RoleAdmin, EmailVerified: true})
	require.NoError(t, err)
	u, err := st.Profiles().Create(ctx, repository.CreateProfileInput{Email: "karim@x.ma", FullName: "Karim", Role: repository.RoleResident, EmailVerified: true})
	require.NoError(t, err)

	f := &fixture{
		st:      st,
		files:   &fakeFiles{},
		mailer:  email.NewMockMailer(gomock.NewController(t)),
		metrics: metrics.New(),
		admin:   access.Scope{UserID: admin.ID, Role: repository.RoleAdmin},
		user:    access.Scope{UserID: u.ID, Role: repository.RoleResident},
	}
	f.svc = New(Deps{Store: st, Files: f.files, Mailer: f.mailer, Metrics: f.metrics, Now: func() time.Time { return now }})
	return f
}

func (f *fixture) submit(t *testing.T) *dto.DocumentResponse {
	t.Helper()
	d, err := f.svc.Submit(context.Background(), f.user, dto.SubmitDocumentRequest{
		ResidenceName: "Les Orangers", Address: "12 rue Atlas", City: "Rabat", FileKey: "submissions/pv.pdf",
	})
	require.NoError(t, err)
	return d
}

func TestSubmit_OnePendingPerProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.user, dto.SubmitDocumentRequest{ResidenceName: "X"})
	assert.ErrorIs(t, err, ErrMissingFields)

	d := f.submit(t)
	assert.Equal(t, "pending", d.Status)

	_, err = f.svc.Submit(ctx, f.user, dto.SubmitDocumentRequest{ResidenceName: "Y", FileKey: "k"})
	assert.ErrorIs(t, err, ErrPendingExists)
}

func TestVisibility(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := f.submit(t)

	other := access.Scope{UserID: "someone", Role: repository.RoleResident}
	_, err := f.svc.Get(ctx, other, d.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mine, err := f.svc.List(ctx, other, "")
	require.NoError(t, err)
	assert.Empty(t, mine)

	pending, err := f.svc.List(ctx, f.admin, "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = f.svc.List(ctx, f.admin, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	u, err := f.svc.FileURL(ctx, f.user, d.ID)
	require.NoError(t, err)
	assert.Contains(t, u.URL, "submissions/pv.pdf")
	assert.Equal(t, now.Add(15*time.Minute), u.ExpiresAt)
}

func TestApprove_CreatesResidenceAndPromotes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := f.submit(t)

	f.mailer.EXPECT().
		SendDocumentApproved(gomock.Any(), email.Recipient{Email: "karim@x.ma", Name: "Karim"}, "Les Orangers").
		Return(nil)

	got, err := f.svc.Approve(ctx, f.admin, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
	require.NotNil(t, got.ResidenceID)

	res, err := f.st.Residences().GetBySyndic(ctx, f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, *got.ResidenceID, res.ID)
	assert.Equal(t, "Rabat", res.City)

	prof, err := f.st.Profiles().GetByID(ctx, f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, repository.RoleSyndic, prof.Role)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DocumentsReviewed.WithLabelValues("approved")))

	_, err = f.svc.Approve(ctx, f.admin, d.ID)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = f.svc.Submit(ctx, f.user, dto.SubmitDocumentRequest{ResidenceName: "Autre", FileKey: "k2"})
	assert.ErrorIs(t, err, ErrAlreadySyndic)
}

func TestApprove_RollsBackWhenProfileAlreadyManages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := f.submit(t)

	taken := f.user.UserID
	_, err := f.st.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Déjà", SyndicID: &taken})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.admin, d.ID)
	assert.ErrorIs(t, err, ErrAlreadySyndic)

	doc, err := f.st.Documents().GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.DocumentPending, doc.Status)
	n, err := f.st.Residences().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReject_DeletesFileAndSwallowsFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := f.submit(t)

	_, err := f.svc.Reject(ctx, f.admin, d.ID, " ")
	assert.ErrorIs(t, err, ErrMissingFields)

	f.mailer.EXPECT().
		SendDocumentRejected(gomock.Any(), gomock.Any(), "Les Orangers", "PV illisible").
		Return(errors.New("smtp down"))

	got, err := f.svc.Reject(ctx, f.admin, d.ID, "PV illisible")
	require.NoError(t, err)
	assert.Equal(t, "rejected", got.Status)
	assert.Equal(t, "PV illisible", got.ReviewNote)
	assert.Equal(t, []string{"submissions/pv.pdf"}, f.files.deleted)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DocumentsReviewed.WithLabelValues("rejected")))

	again := f.submit(t)
	assert.NotEqual(t, d.ID, again.ID)
}
