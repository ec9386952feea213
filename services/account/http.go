package account

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vscarantav/parallelscriptures/lib/httputil"
)

const sessionCookieName = "session"

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/verify", s.handleVerify)
	mux.HandleFunc("POST /api/auth/verify/resend", s.handleResendVerification)
	mux.HandleFunc("POST /api/auth/password/forgot", s.handleForgotPassword)
	mux.HandleFunc("POST /api/auth/password/reset", s.handleResetPassword)
	mux.HandleFunc("GET /api/me", s.handleMe)
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// openSession logs the user in. Failing to create the session row is
// logged but doesn't fail the surrounding request, the user can still
// log in manually.
func (s *Service) openSession(w http.ResponseWriter, r *http.Request, userID int64) {
	token, err := s.CreateSession(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", "err", err)
		return
	}
	setSessionCookie(w, token, int((30 * 24 * time.Hour).Seconds()))
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

func (s *Service) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Please provide a valid email and a password (min 8 chars).")
		return
	}
	email := normalizeEmail(req.Email)
	if !validEmail(email) || len(req.Password) < 8 {
		httputil.WriteError(w, http.StatusBadRequest, "Please provide a valid email and a password (min 8 chars).")
		return
	}

	result, err := s.Signup(r.Context(), email, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		httputil.WriteError(w, http.StatusBadRequest, "Email is already registered.")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "signup failed", "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Signup failed.")
		return
	}

	s.openSession(w, r, result.User.ID)

	body := map[string]any{
		"message": "Account created. Check your email to verify your address.",
	}
	if result.DevLink != "" {
		body["dev_verify_link"] = result.DevLink
	}
	httputil.WriteJSON(w, http.StatusCreated, body)
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid email or password.")
		return
	}

	user, err := s.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	case errors.Is(err, ErrEmailNotVerified):
		httputil.WriteError(w, http.StatusForbidden,
			"Email not verified. Check your inbox or request a new verification link.")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "login failed", "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	token, err := s.CreateSession(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Login failed.")
		return
	}
	setSessionCookie(w, token, int((30 * 24 * time.Hour).Seconds()))
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Logged in.",
		"email":   user.Email,
	})
}

// sessionEmail resolves the current session cookie to an email, empty
// when there is no usable session.
func (s *Service) sessionEmail(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	user, err := s.UserFromSession(r.Context(), cookie.Value)
	if err != nil {
		return ""
	}
	return user.Email
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := s.DestroySession(r.Context(), cookie.Value); err != nil {
			slog.WarnContext(r.Context(), "failed to destroy session", "err", err)
		}
	}
	setSessionCookie(w, "", -1)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"message": "Logged out."})
}

func (s *Service) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid or expired verification link.")
		return
	}
	user, err := s.VerifyEmail(r.Context(), token)
	switch {
	case errors.Is(err, ErrInvalidToken):
		httputil.WriteError(w, http.StatusBadRequest, "Invalid or expired verification link.")
		return
	case errors.Is(err, ErrAccountNotFound):
		httputil.WriteError(w, http.StatusNotFound, "Account not found.")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "email verification failed", "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Verification failed.")
		return
	}

	s.openSession(w, r, user.ID)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Email verified!",
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

func (s *Service) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		req.Email = ""
	}
	// fall back to the logged-in account when no email is given
	if req.Email == "" {
		req.Email = s.sessionEmail(r)
	}
	if req.Email == "" {
		httputil.WriteError(w, http.StatusBadRequest, "No email provided.")
		return
	}

	devLink, err := s.ResendVerification(r.Context(), req.Email)
	if errors.Is(err, ErrAccountNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "Account not found.")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to resend verification", "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to send verification email.")
		return
	}

	body := map[string]any{"message": "Verification email sent."}
	if devLink != "" {
		body["dev_verify_link"] = devLink
	}
	httputil.WriteJSON(w, http.StatusOK, body)
}

func (s *Service) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	// the response is generic no matter what the caller sends, the
	// endpoint must not reveal whether an address has an account
	var req emailRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		req.Email = ""
	}

	var devLink string
	if req.Email != "" {
		var err error
		devLink, err = s.ForgotPassword(r.Context(), req.Email)
		if err != nil {
			slog.ErrorContext(r.Context(), "forgot password failed", "err", err)
		}
	}

	body := map[string]any{"message": "If that email exists, we sent a reset link."}
	if devLink != "" {
		body["dev_reset_link"] = devLink
	}
	httputil.WriteJSON(w, http.StatusOK, body)
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (s *Service) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || req.Token == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid or expired reset link.")
		return
	}
	if len(req.Password) < 8 {
		httputil.WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	user, err := s.ResetPassword(r.Context(), req.Token, req.Password)
	switch {
	case errors.Is(err, ErrInvalidToken):
		httputil.WriteError(w, http.StatusBadRequest, "Invalid or expired reset link.")
		return
	case errors.Is(err, ErrAccountNotFound):
		httputil.WriteError(w, http.StatusNotFound, "Account not found.")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "password reset failed", "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Password reset failed.")
		return
	}

	s.openSession(w, r, user.ID)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Password updated.",
	})
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	user, err := s.UserFromSession(r.Context(), cookie.Value)
	if errors.Is(err, ErrInvalidSession) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "session lookup failed", "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Session lookup failed.")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated":  true,
		"email":          user.Email,
		"created_at":     user.CreatedAt,
		"email_verified": user.EmailVerifiedAt.Valid,
	})
}
