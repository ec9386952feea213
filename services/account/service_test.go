package account

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vscarantav/parallelscriptures/lib/testutil"
	"github.com/vscarantav/parallelscriptures/services/account/db"

	_ "embed"
)

//go:embed db/schema.sql
var schemaSql string

// recordingMailer captures outgoing mail so tests can pull links out
// of message bodies without a real SMTP server.
type recordingMailer struct {
	sent []recordedMail
}

type recordedMail struct {
	To      string
	Subject string
	Body    string
}

func (m *recordingMailer) Configured() bool { return true }

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, recordedMail{To: to, Subject: subject, Body: body})
	return nil
}

var linkTokenRegex = regexp.MustCompile(`token=([A-Za-z0-9._-]+)`)

func lastToken(t testing.TB, m *recordingMailer) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	match := linkTokenRegex.FindStringSubmatch(m.sent[len(m.sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

func setup(t testing.TB) (*Service, *recordingMailer, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/account",
		DbSchema: schemaSql,
	})
	mailer := &recordingMailer{}
	service := NewServiceWithMailer(res.DB, Options{
		SecretKey: "test-secret",
		BaseURL:   "http://localhost:5000",
	}, mailer)
	return service, mailer, cleanup
}

func signupVerified(t testing.TB, service *Service, mailer *recordingMailer, email, password string) {
	t.Helper()
	ctx := context.Background()

	_, err := service.Signup(ctx, email, password)
	require.NoError(t, err)
	_, err = service.VerifyEmail(ctx, lastToken(t, mailer))
	require.NoError(t, err)
}

func TestSignupSendsVerificationMail(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	result, err := service.Signup(ctx, "Bob@Email.com ", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, "bob@email.com", result.User.Email)
	require.False(t, result.User.EmailVerifiedAt.Valid)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "bob@email.com", mailer.sent[0].To)
	require.Contains(t, mailer.sent[0].Body, "/api/auth/verify?token=")
}

func TestSignupDuplicateEmail(t *testing.T) {
	service, _, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = service.Signup(ctx, "BOB@email.com", "different-password")
	require.ErrorIs(t, err, ErrEmailTaken)
}

// a signup racing past the existence check still comes back as
// ErrEmailTaken when the unique index rejects the insert
func TestSignupDuplicateEmailConstraint(t *testing.T) {
	service, _, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)

	// insert behind the existence check's back, the way a concurrent
	// request would
	_, err = service.qry.CreateUser(ctx, db.CreateUserParams{
		Email:        "bob@email.com",
		PasswordHash: "irrelevant",
		CreatedAt:    time.Now().Unix(),
	})
	require.Error(t, err)
	require.True(t, isUniqueViolation(err))
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = service.Login(ctx, "bob@email.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrEmailNotVerified)

	verified, err := service.VerifyEmail(ctx, lastToken(t, mailer))
	require.NoError(t, err)
	require.True(t, verified.EmailVerifiedAt.Valid)

	user, err := service.Login(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)
	require.True(t, user.EmailVerifiedAt.Valid)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	signupVerified(t, service, mailer, "bob@email.com", "hunter2hunter2")

	_, err := service.Login(ctx, "bob@email.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, "nobody@email.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyEmailIsIdempotent(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)
	token := lastToken(t, mailer)

	_, err = service.VerifyEmail(ctx, token)
	require.NoError(t, err)
	_, err = service.VerifyEmail(ctx, token)
	require.NoError(t, err)
}

func TestVerifyEmailRejectsTamperedToken(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = service.VerifyEmail(ctx, lastToken(t, mailer)+"x")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenCannotVerifyEmail(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	signupVerified(t, service, mailer, "bob@email.com", "hunter2hunter2")

	_, err := service.ForgotPassword(ctx, "bob@email.com")
	require.NoError(t, err)

	_, err = service.VerifyEmail(ctx, lastToken(t, mailer))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/account",
		DbSchema: schemaSql,
	})
	defer cleanup()

	mailer := &recordingMailer{}
	service := NewServiceWithMailer(res.DB, Options{
		SecretKey:   "test-secret",
		TokenMaxAge: -time.Minute,
	}, mailer)
	ctx := context.Background()

	_, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = service.VerifyEmail(ctx, lastToken(t, mailer))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionLifecycle(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	signupVerified(t, service, mailer, "bob@email.com", "hunter2hunter2")

	user, err := service.Login(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)

	token, err := service.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, token, sessionTokenLength)

	got, err := service.UserFromSession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)

	require.NoError(t, service.DestroySession(ctx, token))

	_, err = service.UserFromSession(ctx, token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	// an unknown address must succeed without sending anything
	devLink, err := service.ForgotPassword(ctx, "nobody@email.com")
	require.NoError(t, err)
	require.Empty(t, devLink)
	require.Empty(t, mailer.sent)
}

func TestPasswordResetFlow(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	signupVerified(t, service, mailer, "bob@email.com", "hunter2hunter2")

	_, err := service.ForgotPassword(ctx, "bob@email.com")
	require.NoError(t, err)
	require.Contains(t, mailer.sent[len(mailer.sent)-1].Body, "/password/reset?token=")

	user, err := service.ResetPassword(ctx, lastToken(t, mailer), "new-password-123")
	require.NoError(t, err)
	require.Equal(t, "bob@email.com", user.Email)

	_, err = service.Login(ctx, "bob@email.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, "bob@email.com", "new-password-123")
	require.NoError(t, err)
}

func TestResendVerification(t *testing.T) {
	service, mailer, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.ResendVerification(ctx, "nobody@email.com")
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = service.ResendVerification(ctx, "bob@email.com")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 2)

	_, err = service.VerifyEmail(ctx, lastToken(t, mailer))
	require.NoError(t, err)

	// already verified accounts succeed without another mail
	_, err = service.ResendVerification(ctx, "bob@email.com")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 2)
}

func TestDevLinksReturnedWhenMailUnconfigured(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/account",
		DbSchema: schemaSql,
	})
	defer cleanup()

	service := NewService(res.DB, Options{
		SecretKey:    "test-secret",
		BaseURL:      "http://localhost:5000",
		ShowDevLinks: true,
	})
	ctx := context.Background()

	result, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Contains(t, result.DevLink, "/api/auth/verify?token=")

	_, err = service.VerifyEmail(ctx,
		linkTokenRegex.FindStringSubmatch(result.DevLink)[1])
	require.NoError(t, err)

	devLink, err := service.ForgotPassword(ctx, "bob@email.com")
	require.NoError(t, err)
	require.Contains(t, devLink, "/password/reset?token=")
}

func TestPasswordsAreHashed(t *testing.T) {
	service, _, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	result, err := service.Signup(ctx, "bob@email.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotContains(t, result.User.PasswordHash, "hunter2hunter2")

	var stored string
	err = service.db.QueryRow(
		"SELECT password_hash FROM users WHERE email = ?", "bob@email.com",
	).Scan(&stored)
	require.NoError(t, err)
	require.NotEqual(t, sql.ErrNoRows, err)
	require.NotContains(t, stored, "hunter2hunter2")
}
