package repository

import (
	"context"
	"strings"

	"proofing-app/internal/domain/photographers"
)

func (r *Repository) PhotographerByEmail(ctx context.Context, email string) (*photographers.Photographer, error) {
	var p photographers.Photographer
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}
