package repository

import (
	"context"

	"proofing-app/internal/domain/orders"
	"proofing-app/internal/domain/selections"

	"gorm.io/gorm"
)

// SelectedPhotoIDs returns the committed selection for (album, client).
func (r *Repository) SelectedPhotoIDs(ctx context.Context, albumID, clientID string) ([]string, error) {
	var ids []string
	if err := orderSelectionsQuery(r.db.WithContext(ctx), albumID, clientID).
		Order("photo_id ASC").
		Pluck("photo_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceSelections swaps the whole selection set of (album, client) in one
// transaction: the old rows are deleted and the new ones inserted, or nothing
// changes at all.
func (r *Repository) ReplaceSelections(ctx context.Context, albumID, clientID string, photoIDs []string) error {
	now := r.now()

	seen := make(map[string]struct{}, len(photoIDs))
	rows := make([]selections.Selection, 0, len(photoIDs))
	for _, id := range photoIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, selections.Selection{
			AlbumID:   albumID,
			ClientID:  clientID,
			PhotoID:   id,
			CreatedAt: now,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("album_id = ? AND client_id = ?", albumID, clientID).
			Delete(&selections.Selection{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Omit("Album", "Client", "Photo").CreateInBatches(rows, 100).Error
	})
}

// SelectionRecords loads every selection in the photographer's albums with
// album, client and photo attached, newest first. Relations that no longer
// resolve are left nil.
func (r *Repository) SelectionRecords(ctx context.Context, photographerID uint) ([]orders.Record, error) {
	var rows []selections.Selection
	if err := photographerSelectionsQuery(r.db.WithContext(ctx), photographerID).
		Preload("Album").
		Preload("Client").
		Preload("Photo").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]orders.Record, 0, len(rows))
	for _, s := range rows {
		out = append(out, orders.Record{
			AlbumID:   s.AlbumID,
			ClientID:  s.ClientID,
			PhotoID:   s.PhotoID,
			CreatedAt: s.CreatedAt,
			Album:     s.Album,
			Client:    s.Client,
			Photo:     s.Photo,
		})
	}
	return out, nil
}
