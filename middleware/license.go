// Package middleware derives the caller's entitlement from a signed license
// token.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const entitlementContextKey contextKey = "entitlement"

const (
	LicenseHeader     = "X-License-Token"
	licenseQueryParam = "license"
	jwtClaimBilling   = "billing"
)

var ErrInvalidLicense = errors.New("invalid license token")

// ParseLicense verifies an HS256 license token and reads its billing claim.
func ParseLicense(raw string, secret []byte) (models.Entitlement, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return models.Entitlement{}, fmt.Errorf("%w: %w", ErrInvalidLicense, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Entitlement{}, ErrInvalidLicense
	}
	billing, ok := claims[jwtClaimBilling].(string)
	if !ok {
		return models.Entitlement{}, fmt.Errorf("%w: missing '%s' claim", ErrInvalidLicense, jwtClaimBilling)
	}
	return models.Entitlement{Billing: models.ParseBillingType(billing)}, nil
}

// IssueLicense signs a token for billing. A zero ttl never expires; a
// negative one gives a token that is already expired.
func IssueLicense(secret []byte, billing models.BillingType, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		jwtClaimBilling: string(billing),
		"iat":           time.Now().Unix(),
	}
	if ttl != 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign license: %w", err)
	}
	return signed, nil
}

func licenseFromRequest(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get(LicenseHeader)); h != "" {
		return h
	}
	return r.URL.Query().Get(licenseQueryParam)
}

// License attaches an entitlement to every request. Requests without a valid
// token are treated as limited, never rejected.
func License(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var ent models.Entitlement
			if raw := licenseFromRequest(r); raw != "" && len(secret) > 0 {
				parsed, err := ParseLicense(raw, secret)
				if err != nil {
					logger.Debug("ignoring license token", slog.Any("error", err))
				} else {
					ent = parsed
				}
			}
			next.ServeHTTP(w, r.WithContext(WithEntitlement(r.Context(), ent)))
		})
	}
}

func WithEntitlement(ctx context.Context, ent models.Entitlement) context.Context {
	return context.WithValue(ctx, entitlementContextKey, ent)
}

// EntitlementFromContext returns the limited entitlement when none was set.
func EntitlementFromContext(ctx context.Context) models.Entitlement {
	ent, _ := ctx.Value(entitlementContextKey).(models.Entitlement)
	return ent
}
