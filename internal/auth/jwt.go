package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoCredentials is returned by JWTBearer when the request carries no
// bearer token at all (a rejection, not a failure).
var ErrNoCredentials = errors.New("yuzu/auth: no bearer token presented")

// JWTBearer builds an Authenticate hook that extracts a bearer token from
// the Authorization header, validates it with keyFunc, and accepts the
// connection if validation succeeds. It is one example implementation of
// the Authenticate contract — the contract itself stays a plain function so
// hosts can supply entirely different schemes.
func JWTBearer(keyFunc jwt.Keyfunc, parserOpts ...jwt.ParserOption) Authenticate {
	parser := jwt.NewParser(parserOpts...)
	return func(info Info) (bool, error) {
		token := extractBearer(info)
		if token == "" {
			return false, ErrNoCredentials
		}
		claims := jwt.MapClaims{}
		_, err := parser.ParseWithClaims(token, claims, keyFunc)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return false, err
			}
			return false, err
		}
		return true, nil
	}
}

func extractBearer(info Info) string {
	if info.Request != nil {
		authHeader := info.Request.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				if token := strings.TrimSpace(parts[1]); token != "" {
					return token
				}
			}
		}
	}
	if tokens, ok := info.Query["token"]; ok && len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}
