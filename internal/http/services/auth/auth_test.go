package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dropDatabas3/syndik/internal/cache"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/security/password"
	"github.com/dropDatabas3/syndik/internal/store/memory"
)

type fixture struct {
	svc    Services
	store  *memory.Store
	mailer *email.MockMailer
	issuer *jwtx.Issuer
	codes  map[string]string // email -> último código enviado
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	return newFixtureWithCache(t, maxAttempts, cache.NewMemory(time.Minute))
}

func newFixtureWithCache(t *testing.T, maxAttempts int, c cache.Client) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		store:  memory.New(),
		mailer: email.NewMockMailer(ctrl),
		issuer: jwtx.NewIssuer("syndik-test", []byte("0123456789abcdef0123456789abcdef"), time.Hour),
		codes:  map[string]string{},
	}
	f.mailer.EXPECT().SendOTP(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, to email.Recipient, code, _ string, _ time.Duration) error {
			f.codes[to.Email] = code
			return nil
		}).AnyTimes()

	f.svc = NewServices(Deps{
		Store:          f.store,
		Issuer:         f.issuer,
		Cache:          c,
		Mailer:         f.mailer,
		Hasher:         password.Hasher{Cost: 4},
		Policy:         password.Policy{MinLength: 8, RequireDigit: true},
		OTPMaxAttempts: maxAttempts,
	})
	return f
}

func TestRegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	p, err := f.svc.Auth.Register(ctx, dto.RegisterRequest{Email: " Amina@Example.MA ", Password: "s3cretpass", FullName: "Amina"})
	require.NoError(t, err)
	assert.Equal(t, "amina@example.ma", p.Email)
	assert.Equal(t, "resident", p.Role)
	assert.False(t, p.EmailVerified)

	_, err = f.svc.Auth.Login(ctx, dto.LoginRequest{Email: "amina@example.ma", Password: "s3cretpass"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	code := f.codes["amina@example.ma"]
	require.Len(t, code, 6)

	_, err = f.svc.Auth.VerifyOTP(ctx, dto.OTPVerifyRequest{Email: "amina@example.ma", Code: "000000x", Purpose: PurposeVerifyEmail})
	assert.ErrorIs(t, err, ErrInvalidCode)

	res, err := f.svc.Auth.VerifyOTP(ctx, dto.OTPVerifyRequest{Email: "amina@example.ma", Code: code, Purpose: PurposeVerifyEmail})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Nil(t, res.Token)

	// un código sólo sirve una vez
	_, err = f.svc.Auth.VerifyOTP(ctx, dto.OTPVerifyRequest{Email: "amina@example.ma", Code: code, Purpose: PurposeVerifyEmail})
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = f.svc.Auth.Login(ctx, dto.LoginRequest{Email: "amina@example.ma", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tok, err := f.svc.Auth.Login(ctx, dto.LoginRequest{Email: "AMINA@example.ma", Password: "s3cretpass"})
	require.NoError(t, err)
	claims, err := f.issuer.Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.Subject)
	assert.Equal(t, "resident", claims.Role)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	_, err := f.svc.Auth.Register(ctx, dto.RegisterRequest{Email: "x@y.ma"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.svc.Auth.Register(ctx, dto.RegisterRequest{Email: "not-an-email", Password: "s3cretpass", FullName: "X"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.svc.Auth.Register(ctx, dto.RegisterRequest{Email: "x@y.ma", Password: "short", FullName: "X"})
	var pe *PolicyError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reasons, "too_short")

	_, err = f.svc.Auth.Register(ctx, dto.RegisterRequest{Email: "x@y.ma", Password: "s3cretpass", FullName: "X"})
	require.NoError(t, err)
	_, err = f.svc.Auth.Register(ctx, dto.RegisterRequest{Email: "x@y.ma", Password: "s3cretpass", FullName: "X"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestOTP_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t, 5)
	require.NoError(t, f.svc.OTP.Request(context.Background(), "ghost@example.ma", PurposeLogin))
	assert.Empty(t, f.codes)

	assert.ErrorIs(t, f.svc.OTP.Request(context.Background(), "ghost@example.ma", "reset"), ErrInvalidPurpose)
}

func TestOTP_TooManyAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)

	_, err := f.store.Profiles().Create(ctx, repository.CreateProfileInput{Email: "g@example.ma", Role: repository.RoleGuard})
	require.NoError(t, err)
	require.NoError(t, f.svc.OTP.Request(ctx, "g@example.ma", PurposeLogin))
	code := f.codes["g@example.ma"]

	_, err = f.svc.OTP.Consume(ctx, "g@example.ma", "bad", PurposeLogin)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = f.svc.OTP.Consume(ctx, "g@example.ma", "bad", PurposeLogin)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// agotado: ni el código correcto sirve
	_, err = f.svc.OTP.Consume(ctx, "g@example.ma", code, PurposeLogin)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestOTP_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	backends := map[string]func(t *testing.T) cache.Client{
		"memory": func(*testing.T) cache.Client { return cache.NewMemory(time.Minute) },
		"redis": func(t *testing.T) cache.Client {
			mr := miniredis.RunT(t)
			c := cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "syndik:", time.Minute)
			t.Cleanup(func() { _ = c.Close() })
			return c
		},
	}
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureWithCache(t, 5, mk(t))

			_, err := f.store.Profiles().Create(ctx, repository.CreateProfileInput{Email: "g@example.ma", Role: repository.RoleGuard})
			require.NoError(t, err)
			require.NoError(t, f.svc.OTP.Request(ctx, "g@example.ma", PurposeLogin))
			code := f.codes["g@example.ma"]

			const n = 12
			var ok atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					p, err := f.svc.OTP.Consume(ctx, "g@example.ma", code, PurposeLogin)
					if err == nil {
						assert.Equal(t, "g@example.ma", p.Email)
						ok.Add(1)
						return
					}
					assert.ErrorIs(t, err, ErrInvalidCode)
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), ok.Load())
		})
	}
}

func TestOTP_AttemptsCountedOnRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "syndik:", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	f := newFixtureWithCache(t, 2, c)

	_, err := f.store.Profiles().Create(ctx, repository.CreateProfileInput{Email: "g@example.ma", Role: repository.RoleGuard})
	require.NoError(t, err)
	require.NoError(t, f.svc.OTP.Request(ctx, "g@example.ma", PurposeLogin))

	_, err = f.svc.OTP.Consume(ctx, "g@example.ma", "bad", PurposeLogin)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.True(t, mr.Exists("syndik:otp:login:g@example.ma"))
	_, err = f.svc.OTP.Consume(ctx, "g@example.ma", "bad", PurposeLogin)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.False(t, mr.Exists("syndik:otp:login:g@example.ma"))
}

func TestOTPLogin_InvitedProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	invited, err := f.store.Profiles().Create(ctx, repository.CreateProfileInput{Email: "inv@example.ma", Role: repository.RoleResident})
	require.NoError(t, err)

	// sin password no hay login clásico
	_, err = f.svc.Auth.Login(ctx, dto.LoginRequest{Email: "inv@example.ma", Password: "anything1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.svc.OTP.Request(ctx, "inv@example.ma", PurposeLogin))
	res, err := f.svc.Auth.VerifyOTP(ctx, dto.OTPVerifyRequest{Email: "inv@example.ma", Code: f.codes["inv@example.ma"], Purpose: PurposeLogin})
	require.NoError(t, err)
	require.NotNil(t, res.Token)
	assert.True(t, res.Token.Profile.EmailVerified)

	// primera contraseña sin current
	require.NoError(t, f.svc.Auth.ChangePassword(ctx, invited.ID, dto.ChangePasswordRequest{NewPassword: "n3wpassword"}))
	assert.ErrorIs(t,
		f.svc.Auth.ChangePassword(ctx, invited.ID, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "an0therpass"}),
		ErrInvalidCredentials)

	_, err = f.svc.Auth.Login(ctx, dto.LoginRequest{Email: "inv@example.ma", Password: "n3wpassword"})
	require.NoError(t, err)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	syndic, err := f.store.Profiles().Create(ctx, repository.CreateProfileInput{Email: "s@example.ma", Role: repository.RoleSyndic})
	require.NoError(t, err)
	res, err := f.store.Residences().Create(ctx, repository.CreateResidenceInput{Name: "Les Palmiers", SyndicID: &syndic.ID})
	require.NoError(t, err)

	me, err := f.svc.Auth.Me(ctx, syndic.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, me.ManagesID)
	assert.Empty(t, me.Residences)

	_, err = f.svc.Auth.Me(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
