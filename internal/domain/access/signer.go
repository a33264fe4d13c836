package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidAssetToken = errors.New("invalid or expired asset link")

// AssetClaims is what a signed original link carries.
type AssetClaims struct {
	Key      string `json:"key"`
	AlbumID  string `json:"album_id"`
	ClientID string `json:"client_id"`
	PhotoID  string `json:"photo_id"`
	jwt.RegisteredClaims
}

// Signer issues HS256 capability tokens for original downloads.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) Sign(c AssetClaims) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("asset signing secret not configured")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   c.ClientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Signer) Verify(tokenString string) (*AssetClaims, error) {
	claims := &AssetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidAssetToken
	}
	if claims.Key == "" || claims.AlbumID == "" || claims.ClientID == "" {
		return nil, ErrInvalidAssetToken
	}
	return claims, nil
}
