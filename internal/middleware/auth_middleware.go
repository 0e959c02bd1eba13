package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrTokenNotFound = apperror.New(apperror.CodeUnauthorized, "Jeton d'authentification introuvable", http.StatusUnauthorized)
	ErrInvalidToken  = apperror.New(apperror.CodeUnauthorized, "Jeton d'authentification invalide", http.StatusUnauthorized)
	ErrTokenExpired  = apperror.New(apperror.CodeUnauthorized, "Jeton d'authentification expiré", http.StatusUnauthorized)
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextActor  = "actor"
)

// AuthOptions configures token verification. Tokens are issued by the external auth service.
type AuthOptions struct {
	Secret      string
	Required    bool
	DefaultRole string
	Logger      *zap.Logger
}

func AuthMiddleware(opts AuthOptions) gin.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("auth.middleware")

	return func(c *gin.Context) {
		tokenString := bearerToken(c)

		if tokenString == "" || opts.Secret == "" {
			if opts.Required {
				abortWith(c, ErrTokenNotFound)
				return
			}
			c.Set(ContextRole, opts.DefaultRole)
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(opts.Secret), nil
		})
		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			logger.Warn("token rejected", zap.Error(err))
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, ErrInvalidToken)
			return
		}

		userID := claimString(claims, "user_id")
		if userID == "" {
			userID = claimString(claims, "sub")
		}
		if userID == "" {
			abortWith(c, ErrInvalidToken)
			return
		}

		role := claimString(claims, "role")
		if role == "" {
			role = opts.DefaultRole
		}
		actor := claimString(claims, "name")
		if actor == "" {
			actor = userID
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Set(ContextActor, actor)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		ctx = contextutil.WithActor(ctx, actor)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// claimString reads a string claim; numeric ids are printed without decimals.
func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Abort(c, err.HTTPStatus, err.Code, err.Message)
}
