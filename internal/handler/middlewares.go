package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

const tokenCookieName = "__bluewave_backoffice_token"

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if rw.StatusCode == 0 {
		rw.StatusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		if rw.StatusCode == 0 {
			rw.StatusCode = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		h.metrics.ObserveHTTP(route, r.Method, rw.StatusCode, duration)

		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack())) // slog would mangle the trace
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			h.errorResponse(w, r, domain.ErrUnauthenticated)
			return
		}

		claims := &AuthClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			h.errorResponse(w, r, domain.ErrUnauthenticated)
			return
		}

		accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || claims.Email == "" {
			h.errorResponse(w, r, domain.ErrUnauthenticated)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, AccountIDCtxKey, accountID)
		ctx = context.WithValue(ctx, EmailCtxKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminGuard must run after auth. Admin rights come only from the
// configured allow-list, never from the token itself.
func (h *Handler) adminGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, _ := r.Context().Value(EmailCtxKey).(string)
		if email == "" {
			h.errorResponse(w, r, domain.ErrUnauthenticated)
			return
		}
		if !h.config.IsAdmin(email) {
			h.errorResponse(w, r, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func (h *Handler) placement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.errorResponse(w, r, err)
			return
		}

		p, err := h.repository.GetPlacementByID(r.Context(), id)
		if err != nil {
			h.errorResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), PlacementCtx, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) activity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.errorResponse(w, r, err)
			return
		}

		a, err := h.repository.GetActivityByID(r.Context(), id)
		if err != nil {
			h.errorResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ActivityCtx, a)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
