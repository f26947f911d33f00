package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Valeamar/tidal2025/internal/store"
)

const (
	tokenTTL     = 12 * time.Hour
	bearerPrefix = "Bearer "
)

type contextKey string

const adminEmailKey contextKey = "admin_email"

type authService struct {
	users  *store.Users
	secret []byte
	now    func() time.Time
}

func newAuthService(users *store.Users, sessionSecret string) *authService {
	return &authService{users: users, secret: []byte(sessionSecret), now: time.Now}
}

func (a *authService) validateCredentials(ctx context.Context, email, password string) (bool, error) {
	hash, err := a.users.PasswordHash(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (a *authService) issueToken(email string) (string, time.Time, error) {
	expires := a.now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"type":  "access",
		"exp":   expires.Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (a *authService) verifyToken(raw string) (string, bool) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		return "", false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "access" {
		return "", false
	}
	email, _ := claims["email"].(string)
	return email, email != ""
}

func (a *authService) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "missing bearer token", false)
			return
		}

		email, ok := a.verifyToken(strings.TrimPrefix(header, bearerPrefix))
		if !ok {
			writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token", false)
			return
		}

		ctx := context.WithValue(r.Context(), adminEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
