package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Gin context keys populated by AuthRequired.
const (
	ctxAccountID   = "accountID"
	ctxRole        = "role"
	ctxDisplayName = "displayName"
)

// generateJWT mints a bearer token carrying the account's identity claims.
func (h *Handler) generateJWT(accountID, role, displayName string) (string, error) {
	claims := jwt.MapClaims{
		"account_id": accountID,
		"role":       role,
		"name":       displayName,
		"exp":        time.Now().Add(time.Hour * 72).Unix(),
		"iss":        "unicrew-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

// validateJWT parses the token and returns the identity claims.
func (h *Handler) validateJWT(tokenString string) (accountID, role, displayName string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", errors.New("invalid claims")
	}
	accountID, _ = claims["account_id"].(string)
	role, _ = claims["role"].(string)
	displayName, _ = claims["name"].(string)
	if accountID == "" {
		return "", "", "", errors.New("token carries no account")
	}
	return accountID, role, displayName, nil
}

// AuthRequired validates the bearer token from the Authorization header or,
// for the WebSocket handshake where headers are awkward for browser clients,
// from the "token" query parameter.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[len("Bearer "):]
		} else {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		accountID, role, displayName, err := h.validateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(ctxAccountID, accountID)
		c.Set(ctxRole, role)
		c.Set(ctxDisplayName, displayName)
		c.Next()
	}
}

type tokenRequest struct {
	AccountID string `json:"accountId" binding:"required"`
}

// IssueToken exchanges a known account ID for a signed bearer token.
// Real session issuance lives in the identity service; this endpoint exists
// so local environments and integration tests have a token source.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountId is required"})
		return
	}

	account, err := h.Storage.GetAccountByID(req.AccountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	token, err := h.generateJWT(account.ID, account.Role, account.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "accountId": account.ID})
}
