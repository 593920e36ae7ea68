package utils

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/postboard/internal/transfer"
)

const issuer = "postboard"

var ErrInvalidToken = errors.New("invalid token")

func GenerateToken(secretKey, userID string, tokenDuration time.Duration) (string, error) {
	now := time.Now()
	claims := transfer.CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return sign(secretKey, claims)
}

func ValidateToken(secretKey, tokenString string) (*transfer.CustomClaims, error) {
	claims := &transfer.CustomClaims{}
	if err := parse(secretKey, tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateApprovalToken signs a token scoped to one post.
func GenerateApprovalToken(secretKey, postID, tokenID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := transfer.ApprovalClaims{
		PostID: postID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   "approval",
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return sign(secretKey, claims)
}

func ValidateApprovalToken(secretKey, tokenString string) (*transfer.ApprovalClaims, error) {
	claims := &transfer.ApprovalClaims{}
	if err := parse(secretKey, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Subject != "approval" || claims.PostID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func sign(secretKey string, claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return signed, nil
}

func parse(secretKey, tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
