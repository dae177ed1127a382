package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"fabstore/models"
	"fabstore/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userId"
	roleKey   = "role"
)

type UserEnsurer interface {
	EnsureUser(ctx context.Context, id services.Identity) (*models.User, error)
}

// identityFromToken parses an HS256 token from the identity provider. The
// subject is read from "sub", falling back to "userId".
func identityFromToken(tokenString string, secret []byte) (services.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return services.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return services.Identity{}, fmt.Errorf("invalid token")
	}

	claim := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	id := services.Identity{
		ExternalID: claim("sub"),
		Email:      claim("email"),
		Name:       claim("name"),
		Role:       claim("role"),
	}
	if id.ExternalID == "" {
		id.ExternalID = claim("userId")
	}
	if id.ExternalID == "" {
		return services.Identity{}, fmt.Errorf("token has no subject")
	}
	return id, nil
}

// AuthMiddleware authenticates the bearer token, records the user on first
// sight and puts userId and role on the gin context.
func AuthMiddleware(secret []byte, users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		id, err := identityFromToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.EnsureUser(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(userIDKey, user.ExternalID)
		c.Set(roleKey, user.Role)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin only"})
			return
		}
		c.Next()
	}
}

// UserID is empty for unauthenticated requests.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}
