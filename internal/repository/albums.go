package repository

import (
	"context"

	"proofing-app/internal/domain/albums"

	"gorm.io/gorm"
)

// AlbumByShareToken loads an active gallery with its photos in display order.
func (r *Repository) AlbumByShareToken(ctx context.Context, token string) (*albums.Album, error) {
	var a albums.Album
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&a, "share_token = ? AND active = ?", token, true).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *Repository) AlbumsByPhotographer(ctx context.Context, photographerID uint) ([]albums.Album, error) {
	var list []albums.Album
	if err := r.db.WithContext(ctx).
		Where("photographer_id = ?", photographerID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// EnsureShareToken backfills a missing share token.
func (r *Repository) EnsureShareToken(ctx context.Context, a *albums.Album) (string, error) {
	return albums.EnsureShareToken(r.db.WithContext(ctx), a)
}

func (r *Repository) AlbumOwnedBy(ctx context.Context, albumID string, photographerID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&albums.Album{}).
		Where("id = ? AND photographer_id = ?", albumID, photographerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
