package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenMiddleware verifies the bearer token and attaches the verified
// actor identifier as "userId". Handlers trust this identifier completely.
func AccessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Authorization header is missing"})
			return
		}

		tokenString := strings.Replace(header, "Bearer ", "", 1)
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET_KEY")), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Token is expired or invalid"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Invalid token claims"})
			return
		}

		userID, ok := claims["userId"].(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Invalid userId in token claims"})
			return
		}

		c.Set("claims", claims)
		c.Set("userId", userID)
		c.Next()
	}
}
