package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/hooplab/courtside/models"
)

type contextKey string

const userContextKey contextKey = "user"

// Claim names used in issued tokens.
const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
)

func withClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("user claims not found in context")
	}
	return claims, nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	raw, ok := claims[ClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", ClaimUserID)
	}
	// encoding/json decodes JWT numbers as float64.
	asFloat, ok := raw.(float64)
	if !ok || asFloat != float64(int(asFloat)) {
		return 0, fmt.Errorf("invalid %q claim: %v", ClaimUserID, raw)
	}
	userID := int(asFloat)
	if userID <= 0 {
		return 0, fmt.Errorf("invalid %q claim value: %d", ClaimUserID, userID)
	}
	return userID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	raw, ok := claims[ClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid %q claim in token", ClaimRole)
	}
	role := models.UserRole(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q in token", raw)
	}
	return role, nil
}
