package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/utils"
)

type AuthClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   *domain.Account `json:"account"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func resetPasswordOTPKey(email string) string {
	return fmt.Sprintf("otp:reset_password:%s", email)
}

func (h *Handler) issueToken(a *domain.Account) (string, time.Time, error) {
	now := time.Now()
	expiration := now.Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Email: a.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(a.ID, 10),
		},
	})

	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return ss, expiration, nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		FullName string `json:"fullName" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	account := &domain.Account{
		Email:        normalizeEmail(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hashedPassword),
	}

	if err := h.repository.CreateAccount(r.Context(), account); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			h.writeError(w, r, http.StatusConflict, "email is already registered")
			return
		}
		h.internalServerError(w, r, err)
		return
	}
	account.IsAdmin = h.config.IsAdmin(account.Email)

	h.writeJSON(w, r, http.StatusCreated, account)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	account, err := h.repository.GetAccountByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			h.writeError(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.internalServerError(w, r, err)
		return
	}
	account.IsAdmin = h.config.IsAdmin(account.Email)

	ss, expiration, err := h.issueToken(account)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// browsers get an http-only cookie, API clients use the returned token
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)

	h.writeJSON(w, r, http.StatusOK, LoginResponse{Token: ss, ExpiresAt: expiration, Account: account})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:    tokenCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "logged out")
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	const sent = "if the account exists, a reset code has been sent"

	account, err := h.repository.GetAccountByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// same answer as for a real account so the endpoint cannot probe for e-mails
			h.successResponse(w, r, sent)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	otp := utils.GenerateRandomOTP()

	ctx, cancel := h.redisContext(r)
	defer cancel()

	if err := h.redisClient.Set(ctx, resetPasswordOTPKey(account.Email), otp, time.Duration(h.config.OTP.Expiration)*time.Second).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: domain.MailTypeResetPassword,
		To:   account.Email,
		Data: domain.ResetPasswordMailData{
			FullName:   account.FullName,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60, // minutes in the mail, seconds in config
		},
	}

	if err := h.publishMail(r.Context(), mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, sent)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		OTP      string `json:"otp" validate:"required,len=6,numeric"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	email := normalizeEmail(req.Email)
	invalidOTP := domain.NewValidationError("otp", "is invalid or expired")

	ctx, cancel := h.redisContext(r)
	defer cancel()

	otp, err := h.redisClient.Get(ctx, resetPasswordOTPKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			h.badRequest(w, r, invalidOTP)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if otp != req.OTP {
		h.badRequest(w, r, invalidOTP)
		return
	}

	account, err := h.repository.GetAccountByEmail(r.Context(), email)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	account.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateAccountPassword(r.Context(), account); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	if err := h.redisClient.Del(ctx, resetPasswordOTPKey(email)).Err(); err != nil {
		// the password is already changed; a leftover code expires on its own
		slog.Warn("failed to delete reset code", "email", email, "error", err)
	}

	h.successResponse(w, r, "password has been reset")
}
