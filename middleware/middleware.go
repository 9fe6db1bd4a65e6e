package middleware

import (
	"context"
	"net/http"
	"strings"

	"kuic/globals"
	"kuic/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string   `json:"username"`
	Role     []string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate guards admin writes with an HS256 bearer token. With an empty
// secret it returns next unchanged and writes stay open.
func Authenticate(secret string) func(httprouter.Handle) httprouter.Handle {
	key := []byte(secret)
	return func(next httprouter.Handle) httprouter.Handle {
		if len(key) == 0 {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
				return
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			claims, err := ValidateJWT(tokenString, key)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			subject := claims.Subject
			if subject == "" {
				subject = claims.Username
			}
			ctx := context.WithValue(r.Context(), globals.SubjectKey, subject)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// ValidateJWT parses a raw token, accepting only HMAC signatures.
func ValidateJWT(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Subject returns the authenticated subject carried by ctx, if any.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(globals.SubjectKey).(string)
	return s
}

// Chain applies wrappers outermost first: Chain(a, b)(h) == a(b(h)).
func Chain(wrappers ...func(httprouter.Handle) httprouter.Handle) func(httprouter.Handle) httprouter.Handle {
	return func(h httprouter.Handle) httprouter.Handle {
		for i := len(wrappers) - 1; i >= 0; i-- {
			h = wrappers[i](h)
		}
		return h
	}
}
