package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"proofing-app/internal/domain/photographers"
	"proofing-app/internal/logging"
	"proofing-app/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type PhotographerFinder interface {
	PhotographerByEmail(ctx context.Context, email string) (*photographers.Photographer, error)
}

type Handler struct {
	photographers PhotographerFinder
	secret        []byte
}

func NewHandler(finder PhotographerFinder, secret string) *Handler {
	return &Handler{photographers: finder, secret: []byte(secret)}
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.photographers.PhotographerByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logging.Logger.WithError(err).Error("load photographer failed")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if p.PasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := IssueToken(h.secret, p, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

// IssueToken signs the photographer session token read by AuthMiddleware.
func IssueToken(secret []byte, p *photographers.Photographer, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"photographer_id": p.ID,
		"email":           p.Email,
		"role":            p.Role,
		"exp":             now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(secret)
}

// HashPassword produces the value stored in Photographer.PasswordHash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
