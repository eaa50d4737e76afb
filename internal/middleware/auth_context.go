package middleware

import (
	"context"
	"net/http"
	"strings"

	"union-ganadera/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: X-Debug-User-ID (+ X-Debug-User-Role opcional).
// - Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
// - Un usuario con rol banned recibe 403 en cualquier ruta.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveClaims(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if claims.Role == auth.RoleBanned {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	// Dev mode: permitir inyectar user sin verifier
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID"))
		if uid == "" {
			return auth.Claims{}, false
		}
		role := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Debug-User-Role")))
		return auth.Claims{UserID: uid, Role: auth.ParseRole(role)}, true
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}

	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		// No cortamos aquí para no acoplar. El handler decide 401/403.
		return auth.Claims{}, false
	}
	return claims, true
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
