package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token and attaches the decoded
// identity (user_id, email, rol) to the request context.
func AuthMiddleware(secreto string) gin.HandlerFunc {
	jwtKey := []byte(secreto)

	return func(c *gin.Context) {
		if len(jwtKey) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "JWT secret not configured"})
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": "Token requerido"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": "Token requerido"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": "Token inválido o expirado"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": "Token inválido o expirado"})
			c.Abort()
			return
		}

		if uid, ok := claims["uid"].(string); ok {
			c.Set("user_id", uid)
		}
		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}
		if rol, ok := claims["rol"].(string); ok {
			c.Set("rol", rol)
		}

		c.Next()
	}
}

// RequireRol rejects any identity whose rol claim differs from the
// required one. Runs after AuthMiddleware.
func RequireRol(rol string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("rol")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": "Token requerido"})
			c.Abort()
			return
		}

		if value != rol {
			c.JSON(http.StatusForbidden, gin.H{"mensaje": "No autorizado"})
			c.Abort()
			return
		}

		c.Next()
	}
}
