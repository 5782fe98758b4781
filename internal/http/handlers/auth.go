package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/sqlinline"
)

const (
	minPasswordLength = 6

	// Postgres unique_violation
	pgUniqueViolation = "23505"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, fieldError{Field: "name", Message: "Name is required"})
	}
	if !emailRegexp.MatchString(req.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "Please include a valid email"})
	}
	if len(req.Password) < minPasswordLength {
		errs = append(errs, fieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if len(errs) > 0 {
		a.validation(w, errs)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.serverError(w, err)
		return
	}

	user, err := a.createUser(r, strings.TrimSpace(req.Name), email, string(hash))
	if errors.Is(err, domain.ErrDuplicateEmail) {
		a.message(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}

	token, err := middleware.SignToken(a.Cfg.JWTSecret, user.ID, string(user.Role), a.Cfg.JWTExpiry)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if !emailRegexp.MatchString(req.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "Please include a valid email"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		a.validation(w, errs)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := a.authenticate(r, email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		// Same response whether the email is unknown or the password is
		// wrong, so the endpoint does not leak which emails exist.
		a.message(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}

	token, err := middleware.SignToken(a.Cfg.JWTSecret, user.ID, string(user.Role), a.Cfg.JWTExpiry)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.message(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	user, err := a.userByID(r, userID)
	if errors.Is(err, domain.ErrNotFound) {
		a.message(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, user)
}

const forgotPasswordMessage = "If an account exists, a reset link has been sent"

func (a *App) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !emailRegexp.MatchString(req.Email) {
		a.validation(w, []fieldError{{Field: "email", Message: "Please include a valid email"}})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var userID string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, email)
	err := row.Scan(&userID, new(string), new(string), new(string), new(string), new(string), new(time.Time))
	if errors.Is(err, pgx.ErrNoRows) {
		// Generic response either way; no account enumeration.
		a.json(w, http.StatusOK, map[string]string{"message": forgotPasswordMessage})
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}

	rawToken, err := newResetToken()
	if err != nil {
		a.serverError(w, err)
		return
	}
	expires := time.Now().Add(a.Cfg.ResetTokenTTL)
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QSetResetToken, userID, hashResetToken(rawToken), expires); err != nil {
		a.serverError(w, err)
		return
	}

	// Email delivery is out of scope; the raw token is returned so the flow
	// can be completed without it.
	a.json(w, http.StatusOK, map[string]string{
		"message":    forgotPasswordMessage,
		"resetToken": rawToken,
	})
}

func (a *App) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Password) < minPasswordLength {
		a.validation(w, []fieldError{{Field: "password", Message: "Password must be at least 6 characters"}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.serverError(w, err)
		return
	}

	if err := a.redeemResetToken(r, pathParam(r, "token"), string(hash)); err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpiredToken) {
			a.message(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
}

// redeemResetToken swaps the password hash for a valid, unexpired token and
// reports ErrInvalidOrExpiredToken when the guarded update touches nothing.
func (a *App) redeemResetToken(r *http.Request, rawToken, passwordHash string) error {
	var userID string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QResetPasswordByToken, hashResetToken(rawToken), passwordHash)
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrInvalidOrExpiredToken
		}
		return err
	}
	return nil
}

// createUser inserts the account, translating the unique-index violation to
// ErrDuplicateEmail. The pre-insert existence check keeps the common
// duplicate path off the error log; a concurrent register losing the
// check-then-insert race surfaces through the same sentinel.
func (a *App) createUser(r *http.Request, name, email, passwordHash string) (domain.User, error) {
	user := domain.User{Name: name, Email: email}

	var existingID string
	err := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, email).
		Scan(&existingID, new(string), new(string), new(string), new(string), new(string), new(time.Time))
	if err == nil {
		return user, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return user, err
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertUser, name, email, passwordHash, "")
	if err := row.Scan(&user.ID, &user.Role, &user.Avatar, &user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return user, domain.ErrDuplicateEmail
		}
		return user, err
	}
	return user, nil
}

// authenticate resolves the account and checks the password, collapsing both
// failure modes into ErrInvalidCredentials.
func (a *App) authenticate(r *http.Request, email, password string) (domain.User, error) {
	var user domain.User
	var passwordHash string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, email)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &passwordHash, &user.Role, &user.Avatar, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user, domain.ErrInvalidCredentials
	}
	if err != nil {
		return user, err
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return user, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (a *App) userByID(r *http.Request, userID string) (domain.User, error) {
	var user domain.User
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByID, userID)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.Avatar, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user, domain.ErrNotFound
	}
	return user, err
}

func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
