package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/httputil"
	"github.com/limbo/accountability/pkg/logger"
)

type contextKey string

var (
	requestIDContextKey = contextKey("Request-ID")
	operatorContextKey  = contextKey("Operator")
)

func (s *Server) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDContextKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) SettingUpLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		reqID, ok := r.Context().Value(requestIDContextKey).(string)
		if ok && reqID != "" {
			log = log.With(slog.String("request_id", reqID))
		}
		log = log.With(slog.String("from", r.RemoteAddr))
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), log)))
	})
}

func (s *Server) LoggerExtensionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		operator, ok := r.Context().Value(operatorContextKey).(string)
		if ok && operator != "" {
			log = log.With(slog.String("operator", operator))
		}
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), log)))
	})
}

func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		tokenString, err := GetTokenFromHeader(r)
		if err != nil {
			log.Error("auth failed: no bearer token")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "authorization failed: invalid token", nil)
			return
		}
		claims, err := s.jwtService.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, errorvalues.ErrInvalidToken) {
				log.Error("auth failed: invalid or expired token")
				httputil.WriteErrorResponse(w, http.StatusUnauthorized, "authorization failed: invalid token", nil)
				return
			}
			log.Error("auth failed: internal error while parsing token", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error parsing token", nil)
			return
		}
		ctx := context.WithValue(r.Context(), operatorContextKey, claims.Operator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetTokenFromHeader(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", errorvalues.ErrInvalidToken
	}
	parts := strings.Split(token, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errorvalues.ErrInvalidToken
	}
	return parts[1], nil
}

func GetOperatorFromContext(r *http.Request) (string, error) {
	operator, ok := r.Context().Value(operatorContextKey).(string)
	if !ok || operator == "" {
		return "", errors.New("operator invalid or doesn't exists")
	}
	return operator, nil
}
