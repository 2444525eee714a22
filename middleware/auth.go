package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/services"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const actorContextKey contextKey = "actor"

var ErrNoActor = errors.New("no authenticated actor in context")

// JWT claim names issued by the auth handler.
const (
	claimUserID   = "user_id"
	claimRole     = "role"
	claimLocality = "localidad_id"
)

// Authenticate validates the Bearer token and stores the resolved
// actor in the request context. Identity lives here, never inside the
// business rules.
func Authenticate(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing or malformed Authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFromClaims(claims jwt.MapClaims) (services.Actor, error) {
	idFloat, ok := claims[claimUserID].(float64)
	if !ok || idFloat <= 0 {
		return services.Actor{}, fmt.Errorf("missing or invalid %q claim", claimUserID)
	}

	roleStr, ok := claims[claimRole].(string)
	if !ok {
		return services.Actor{}, fmt.Errorf("missing %q claim", claimRole)
	}
	role := models.UserRole(roleStr)
	if role != models.RoleAdmin && role != models.RoleGestor {
		return services.Actor{}, fmt.Errorf("unknown role %q", roleStr)
	}

	actor := services.Actor{UserID: int(idFloat), Role: role}
	if locFloat, ok := claims[claimLocality].(float64); ok {
		actor.LocalityID = int(locFloat)
	}
	if role == models.RoleGestor && actor.LocalityID == 0 {
		return services.Actor{}, fmt.Errorf("gestor token without %q claim", claimLocality)
	}
	return actor, nil
}

// RequireRole rejects requests whose actor has none of the given roles.
// Runs after Authenticate.
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := ActorFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// ActorFromContext returns the authenticated actor stored by
// Authenticate.
func ActorFromContext(ctx context.Context) (services.Actor, error) {
	actor, ok := ctx.Value(actorContextKey).(services.Actor)
	if !ok {
		return services.Actor{}, ErrNoActor
	}
	return actor, nil
}
