package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextClinicID = "clinicID"
	ContextUserRole = "userRole"
)

// ClinicClaims is the payload issued by the clinic's identity service.
type ClinicClaims struct {
	UserID   uint   `json:"sub"`
	ClinicID uint   `json:"clinicId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthMiddleware validates an HS256 bearer token and scopes the request to
// the token's clinic.
func AuthMiddleware(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	key := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Token não informado.")
			return
		}

		raw, ok := bearerToken(header)
		if !ok {
			httperr.Unauthorized(c, "invalid_authorization_header", "Cabeçalho Authorization inválido.")
			return
		}

		claims := &ClinicClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, key); err != nil {
			httperr.Unauthorized(c, "invalid_token", "Token inválido ou expirado.")
			return
		}

		if claims.UserID == 0 || claims.ClinicID == 0 {
			httperr.Unauthorized(c, "invalid_token_payload", "Token sem clínica ou usuário.")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClinicID, claims.ClinicID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}
