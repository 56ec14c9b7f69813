package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/controllers"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	"github.com/dropDatabas3/syndik/internal/http/services"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/rate"
	"github.com/dropDatabas3/syndik/internal/security/password"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

type RouterSuite struct {
	suite.Suite

	store   *memory.Store
	issuer  *jwtx.Issuer
	handler http.Handler

	residenceID string
	residentID  string
	syndicTok   string
	residentTok string
	guardTok    string
	adminTok    string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	ctx := context.Background()
	s.store = memory.New()
	s.issuer = jwtx.NewIssuer("syndik-test", []byte("0123456789abcdef0123456789abcdef"), time.Hour)
	hasher := password.Hasher{Cost: 4}

	hash, err := hasher.Hash("secret-123")
	s.Require().NoError(err)

	admin := s.profile(repository.CreateProfileInput{Email: "admin@x.ma", PasswordHash: hash, Role: repository.RoleAdmin, EmailVerified: true})
	syndic := s.profile(repository.CreateProfileInput{Email: "syndic@x.ma", PasswordHash: hash, Role: repository.RoleSyndic, EmailVerified: true})
	resident := s.profile(repository.CreateProfileInput{Email: "nadia@x.ma", FullName: "Nadia", PasswordHash: hash, Role: repository.RoleResident, EmailVerified: true})
	guard := s.profile(repository.CreateProfileInput{Email: "guard@x.ma", Role: repository.RoleGuard, EmailVerified: true})

	res, err := s.store.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Les Palmiers", SyndicID: &syndic.ID})
	s.Require().NoError(err)
	for _, p := range []*repository.Profile{resident, guard} {
		_, err = s.store.Links().Create(ctx, repository.CreateLinkInput{ProfileID: p.ID, ResidenceID: res.ID, Apartment: "A1", Verified: true})
		s.Require().NoError(err)
	}
	s.residenceID = res.ID
	s.residentID = resident.ID

	s.adminTok = s.token(admin)
	s.syndicTok = s.token(syndic)
	s.residentTok = s.token(resident)
	s.guardTok = s.token(guard)

	m := metrics.New()
	svcs := services.New(services.Deps{
		Store:   s.store,
		Cache:   cache.NewMemory(time.Minute),
		Issuer:  s.issuer,
		Mailer:  email.NewService(email.NoopSender{}, email.NewRenderer(), "MAD"),
		Metrics: m,
		BaseURL: "https://app.test",
		Hasher:  hasher,
		Policy:  password.Policy{MinLength: 8},
	})
	s.handler = New(Deps{
		Controllers: controllers.New(svcs, "test"),
		Issuer:      s.issuer,
		Resolver:    svcs.Access,
		Roles:       svcs.Roles,
		Metrics:     m,
		Limiter:     rate.NewMemoryLimiter(),
		LoginRate:   mw.RateRule{Limit: 3, Window: time.Minute},
	})
}

func (s *RouterSuite) profile(in repository.CreateProfileInput) *repository.Profile {
	p, err := s.store.Profiles().Create(context.Background(), in)
	s.Require().NoError(err)
	return p
}

func (s *RouterSuite) token(p *repository.Profile) string {
	tok, _, err := s.issuer.IssueAccess(p.ID, string(p.Role), p.Email)
	s.Require().NoError(err)
	return tok
}

func (s *RouterSuite) do(method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (s *RouterSuite) TestHealthAndFallbacks() {
	rec, _ := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/readyz", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("test", rec.Header().Get("X-Service-Version"))

	rec, env := s.do(http.MethodGet, "/v1/nope", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("ROUTE_NOT_FOUND", env.Code)

	rec, _ = s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestAuthAndRoles() {
	rec, env := s.do(http.MethodGet, "/v1/dashboard", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("TOKEN_MISSING", env.Code)

	rec, env = s.do(http.MethodPost, "/v1/fees", s.residentTok, map[string]any{"title": "x"})
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("FORBIDDEN", env.Code)

	rec, env = s.do(http.MethodGet, "/v1/dashboard", s.adminTok, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("RESIDENCE_REQUIRED", env.Code)

	rec, _ = s.do(http.MethodGet, "/v1/dashboard", s.adminTok, nil, mw.ResidenceHeader, s.residenceID)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/v1/admin/users", s.syndicTok, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/v1/payments", s.guardTok, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestLoginAndMe() {
	rec, env := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "nadia@x.ma", "password": "secret-123"})
	s.Require().Equal(http.StatusOK, rec.Code)
	var tok struct {
		AccessToken string `json:"accessToken"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &tok))

	rec, _ = s.do(http.MethodGet, "/v1/auth/me", tok.AccessToken, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "nadia@x.ma", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("INVALID_CREDENTIALS", env.Code)
}

func (s *RouterSuite) TestLoginRateLimited() {
	body := map[string]string{"email": "nadia@x.ma", "password": "wrong"}
	for i := 0; i < 3; i++ {
		rec, _ := s.do(http.MethodPost, "/v1/auth/login", "", body)
		s.Equal(http.StatusUnauthorized, rec.Code)
	}
	rec, env := s.do(http.MethodPost, "/v1/auth/login", "", body)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("RATE_LIMIT_EXCEEDED", env.Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))
}

func (s *RouterSuite) TestPaymentFlow() {
	rec, _ := s.do(http.MethodPost, "/v1/fees", s.syndicTok, map[string]any{
		"profileId": s.residentID, "title": "Ascenseur", "amount": 600, "dueDate": "2020-01-10",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec, env := s.do(http.MethodPost, "/v1/payments", s.residentTok, map[string]any{
		"amount": 1000, "method": "transfer", "reference": "VIR-1",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var p struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &p))
	s.Equal("pending", p.Status)

	rec, _ = s.do(http.MethodPost, "/v1/payments/"+p.ID+"/verify", s.residentTok, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodPost, "/v1/payments/"+p.ID+"/verify", s.syndicTok, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var verified struct {
		Status      string       `json:"status"`
		CreditAfter money.Amount `json:"creditAfter"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &verified))
	s.Equal("verified", verified.Status)
	s.Equal(money.FromUnits(400), verified.CreditAfter)

	rec, env = s.do(http.MethodPost, "/v1/payments/"+p.ID+"/verify", s.syndicTok, nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("ALREADY_REVIEWED", env.Code)
}

func (s *RouterSuite) TestFeeWithVerifiedPayment_Conflicts() {
	rec, env := s.do(http.MethodPost, "/v1/fees", s.syndicTok, map[string]any{
		"profileId": s.residentID, "title": "Toiture", "amount": 600, "dueDate": "2020-01-10",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var fees []struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &fees))
	s.Require().Len(fees, 1)
	feeID := fees[0].ID

	rec, env = s.do(http.MethodPost, "/v1/payments", s.residentTok, map[string]any{
		"amount": 300, "method": "cash",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var p struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &p))
	rec, _ = s.do(http.MethodPost, "/v1/payments/"+p.ID+"/verify", s.syndicTok, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPatch, "/v1/fees/"+feeID, s.syndicTok, map[string]string{"status": "unpaid"})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("CONFLICT", env.Code)

	rec, env = s.do(http.MethodDelete, "/v1/fees/"+feeID, s.syndicTok, nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("CONFLICT", env.Code)

	fe, err := s.store.Fees().GetByID(context.Background(), feeID)
	s.Require().NoError(err)
	s.Equal(money.FromUnits(300), fe.AmountPaid)
}

func (s *RouterSuite) TestIncidentTransitions() {
	rec, env := s.do(http.MethodPost, "/v1/incidents", s.guardTok, map[string]string{"title": "Portail"})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var inc struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &inc))

	patch := func(status string) (*httptest.ResponseRecorder, envelope) {
		return s.do(http.MethodPatch, "/v1/incidents/"+inc.ID+"/status", s.syndicTok, map[string]string{"status": status})
	}

	rec, env = patch("closed")
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("INVALID_TRANSITION", env.Code)

	for _, st := range []string{"in_progress", "resolved", "closed"} {
		rec, _ = patch(st)
		s.Equal(http.StatusOK, rec.Code, st)
	}

	rec, env = patch("open")
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("INVALID_TRANSITION", env.Code)
}

func (s *RouterSuite) TestDocumentApprovalPromotesSyndic() {
	karim := s.profile(repository.CreateProfileInput{Email: "karim@x.ma", Role: repository.RoleResident, EmailVerified: true})
	karimTok := s.token(karim)

	rec, env := s.do(http.MethodPost, "/v1/documents", karimTok, map[string]string{
		"residenceName": "Résidence Atlas", "address": "12 rue Ibn Sina", "city": "Rabat", "fileKey": "docs/karim.pdf",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var doc struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &doc))
	s.Equal("pending", doc.Status)

	rec, _ = s.do(http.MethodPost, "/v1/admin/documents/"+doc.ID+"/approve", karimTok, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodPost, "/v1/admin/documents/"+doc.ID+"/approve", s.adminTok, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var approved struct {
		Status      string  `json:"status"`
		ResidenceID *string `json:"residenceId"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &approved))
	s.Equal("approved", approved.Status)
	s.Require().NotNil(approved.ResidenceID)

	rec, _ = s.do(http.MethodPost, "/v1/admin/documents/"+doc.ID+"/approve", s.adminTok, nil)
	s.Equal(http.StatusConflict, rec.Code)

	// el rol viaja en el token: uno nuevo ya sale como syndic
	promoted, err := s.store.Profiles().GetByID(context.Background(), karim.ID)
	s.Require().NoError(err)
	s.Equal(repository.RoleSyndic, promoted.Role)

	rec, _ = s.do(http.MethodGet, "/v1/dashboard", s.token(promoted), nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestResidentDetail_GuardSeesNoFinancials() {
	rec, _ := s.do(http.MethodPost, "/v1/fees", s.syndicTok, map[string]any{
		"profileId": s.residentID, "title": "Ascenseur", "amount": 600, "dueDate": "2020-01-10",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec, env := s.do(http.MethodGet, "/v1/residents/"+s.residentID, s.guardTok, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var guardView map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(env.Data, &guardView))
	s.NotContains(guardView, "fees")
	s.NotContains(guardView, "contributions")
	s.NotContains(guardView, "payments")
	var row map[string]any
	s.Require().NoError(json.Unmarshal(guardView["resident"], &row))
	s.Equal("A1", row["apartment"])
	s.NotContains(row, "outstanding")
	s.NotContains(row, "credit")
	s.NotContains(row, "paymentStatus")

	rec, env = s.do(http.MethodGet, "/v1/residents/"+s.residentID, s.syndicTok, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var syndicView struct {
		Resident struct {
			Outstanding money.Amount `json:"outstanding"`
		} `json:"resident"`
		Fees []json.RawMessage `json:"fees"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &syndicView))
	s.Equal(money.FromUnits(600), syndicView.Resident.Outstanding)
	s.Len(syndicView.Fees, 1)
}

func (s *RouterSuite) TestDemotedAdminLosesAccess() {
	ops := s.profile(repository.CreateProfileInput{Email: "ops@x.ma", Role: repository.RoleAdmin, EmailVerified: true})
	opsTok := s.token(ops)

	rec, _ := s.do(http.MethodGet, "/v1/admin/users", opsTok, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPatch, "/v1/admin/users/"+ops.ID+"/role", s.adminTok, map[string]string{"role": "resident"})
	s.Require().Equal(http.StatusOK, rec.Code)

	// el token viejo todavía dice admin
	rec, _ = s.do(http.MethodGet, "/v1/admin/users", opsTok, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestRoleChangedInStoreIsHonoured() {
	ctx := context.Background()
	ops := s.profile(repository.CreateProfileInput{Email: "ops2@x.ma", Role: repository.RoleAdmin, EmailVerified: true})
	opsTok := s.token(ops)
	s.Require().NoError(s.store.Profiles().SetRole(ctx, ops.ID, repository.RoleResident))

	rec, _ := s.do(http.MethodGet, "/v1/admin/users", opsTok, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	gone := &repository.Profile{ID: "no-such-profile", Role: repository.RoleAdmin, Email: "x@x.ma"}
	rec, env := s.do(http.MethodGet, "/v1/admin/users", s.token(gone), nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("TOKEN_INVALID", env.Code)
}
