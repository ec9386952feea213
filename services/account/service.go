package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/vscarantav/parallelscriptures/services/account/db"
)

var tracer = otel.Tracer("services/account")

var (
	ErrEmailTaken         = fmt.Errorf("email is already registered")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrEmailNotVerified   = fmt.Errorf("email not verified")
	ErrAccountNotFound    = fmt.Errorf("account not found")
	ErrInvalidSession     = fmt.Errorf("invalid session")
)

const sessionTokenLength = 48

type Options struct {
	// Smtp credentials for verification and reset mail. When left
	// empty, mail is logged instead of sent.
	Smtp SmtpConfig
	// SecretKey signs verification and reset link tokens.
	SecretKey string
	// TokenMaxAge bounds how long a verification or reset link stays
	// valid. Defaults to one hour.
	TokenMaxAge time.Duration
	// BaseURL is prepended to the links embedded in outgoing mail.
	BaseURL string
	// ShowDevLinks echoes verification and reset links back in API
	// responses when mail could not be sent. Development only.
	ShowDevLinks bool
}

type Service struct {
	db     *sql.DB
	qry    *db.Queries
	mailer Mailer
	opts   Options
}

func NewService(database *sql.DB, opts Options) *Service {
	if opts.TokenMaxAge == 0 {
		opts.TokenMaxAge = time.Hour
	}
	var mailer Mailer = NewSmtpMailer(opts.Smtp)
	if !mailer.Configured() {
		mailer = LogMailer{}
	}
	return &Service{
		db:     database,
		qry:    db.New(database),
		mailer: mailer,
		opts:   opts,
	}
}

// NewServiceWithMailer is used by tests to capture outgoing mail.
func NewServiceWithMailer(database *sql.DB, opts Options, mailer Mailer) *Service {
	svc := NewService(database, opts)
	svc.mailer = mailer
	return svc
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// the sqlite driver surfaces constraint failures as plain strings
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Service) secret() []byte {
	return []byte(s.opts.SecretKey)
}

// SignupResult reports whether the verification mail went out, and
// carries the link itself when dev links are enabled and it did not.
type SignupResult struct {
	User    db.User
	DevLink string
}

func (s *Service) Signup(ctx context.Context, email, password string) (SignupResult, error) {
	ctx, span := tracer.Start(ctx, "Signup")
	defer span.End()

	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SignupResult{}, fmt.Errorf("hash password: %w", err)
	}

	_, err = s.qry.GetUserByEmail(ctx, email)
	if err == nil {
		return SignupResult{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SignupResult{}, err
	}

	user, err := s.qry.CreateUser(ctx, db.CreateUserParams{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().Unix(),
	})
	if isUniqueViolation(err) {
		// lost the race against a concurrent signup for the same email
		return SignupResult{}, ErrEmailTaken
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SignupResult{}, err
	}

	devLink, err := s.sendVerificationMail(ctx, user)
	if err != nil {
		// the account exists either way, the user can ask for a resend
		slog.WarnContext(ctx, "failed to send verification mail",
			"email", user.Email, "err", err)
	}
	return SignupResult{User: user, DevLink: devLink}, nil
}

func (s *Service) sendVerificationMail(ctx context.Context, user db.User) (string, error) {
	token, err := signLinkToken(s.secret(), user.ID, purposeVerify, s.opts.TokenMaxAge)
	if err != nil {
		return "", err
	}
	link := fmt.Sprintf("%s/api/auth/verify?token=%s", s.opts.BaseURL, token)

	if !s.mailer.Configured() {
		err = s.mailer.Send(ctx, user.Email, "Verify your email", link)
		if s.opts.ShowDevLinks {
			return link, err
		}
		return "", err
	}
	body := fmt.Sprintf(
		"Welcome! Confirm your email address by opening this link:\n\n%s\n\nThe link expires in %s.",
		link, s.opts.TokenMaxAge,
	)
	return "", s.mailer.Send(ctx, user.Email, "Verify your email", body)
}

func (s *Service) Login(ctx context.Context, email, password string) (db.User, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	user, err := s.qry.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return db.User{}, ErrInvalidCredentials
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return db.User{}, ErrInvalidCredentials
	}
	if !user.EmailVerifiedAt.Valid {
		return db.User{}, ErrEmailNotVerified
	}
	return user, nil
}

func (s *Service) CreateSession(ctx context.Context, userID int64) (string, error) {
	ctx, span := tracer.Start(ctx, "CreateSession")
	defer span.End()

	token, err := random.String(sessionTokenLength)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("generate session token: %w", err)
	}
	err = s.qry.CreateSession(ctx, db.CreateSessionParams{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return token, nil
}

func (s *Service) DestroySession(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "DestroySession")
	defer span.End()

	return s.qry.DeleteSession(ctx, token)
}

func (s *Service) UserFromSession(ctx context.Context, token string) (db.User, error) {
	user, err := s.qry.GetUserBySession(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return db.User{}, ErrInvalidSession
	}
	return user, err
}

// VerifyEmail is idempotent, opening a verification link twice is
// fine. The verified user is returned so the caller can log them in.
func (s *Service) VerifyEmail(ctx context.Context, token string) (db.User, error) {
	ctx, span := tracer.Start(ctx, "VerifyEmail")
	defer span.End()

	userID, err := parseLinkToken(s.secret(), token, purposeVerify)
	if err != nil {
		return db.User{}, err
	}
	user, err := s.qry.GetUserById(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.User{}, ErrAccountNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.User{}, err
	}
	if user.EmailVerifiedAt.Valid {
		return user, nil
	}
	now := sql.NullInt64{Int64: time.Now().Unix(), Valid: true}
	err = s.qry.SetEmailVerifiedAt(ctx, db.SetEmailVerifiedAtParams{
		EmailVerifiedAt: now,
		ID:              user.ID,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.User{}, err
	}
	user.EmailVerifiedAt = now
	return user, nil
}

// ResendVerification mails a fresh link. Already-verified accounts get
// a success without mail so the endpoint stays idempotent.
func (s *Service) ResendVerification(ctx context.Context, email string) (string, error) {
	ctx, span := tracer.Start(ctx, "ResendVerification")
	defer span.End()

	user, err := s.qry.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if user.EmailVerifiedAt.Valid {
		return "", nil
	}
	return s.sendVerificationMail(ctx, user)
}

// ForgotPassword never reveals whether the address has an account. An
// unknown email returns success with nothing sent.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	ctx, span := tracer.Start(ctx, "ForgotPassword")
	defer span.End()

	user, err := s.qry.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	token, err := signLinkToken(s.secret(), user.ID, purposeReset, s.opts.TokenMaxAge)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	link := fmt.Sprintf("%s/password/reset?token=%s", s.opts.BaseURL, token)

	if !s.mailer.Configured() {
		err = s.mailer.Send(ctx, user.Email, "Reset your password", link)
		if s.opts.ShowDevLinks {
			return link, err
		}
		return "", err
	}
	body := fmt.Sprintf(
		"You asked to reset your password. Open this link to pick a new one:\n\n%s\n\nThe link expires in %s. If this wasn't you, ignore this email.",
		link, s.opts.TokenMaxAge,
	)
	return "", s.mailer.Send(ctx, user.Email, "Reset your password", body)
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) (db.User, error) {
	ctx, span := tracer.Start(ctx, "ResetPassword")
	defer span.End()

	userID, err := parseLinkToken(s.secret(), token, purposeReset)
	if err != nil {
		return db.User{}, err
	}
	user, err := s.qry.GetUserById(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.User{}, ErrAccountNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.User{}, fmt.Errorf("hash password: %w", err)
	}
	err = s.qry.UpdatePasswordHash(ctx, db.UpdatePasswordHashParams{
		PasswordHash: string(hash),
		ID:           user.ID,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.User{}, err
	}
	return user, nil
}
