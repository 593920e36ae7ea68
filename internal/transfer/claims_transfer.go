package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ApprovalClaims authorize the holder to act on a single post.
type ApprovalClaims struct {
	PostID string `json:"post_id"`
	jwt.RegisteredClaims
}
