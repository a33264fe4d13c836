package repository

import (
	"context"
	"errors"

	"proofing-app/internal/domain/payments"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger returns every payment row for the photographer's albums.
func (r *Repository) Ledger(ctx context.Context, photographerID uint) ([]payments.PaymentStatus, error) {
	var rows []payments.PaymentStatus
	if err := photographerLedgerQuery(r.db.WithContext(ctx), photographerID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PaymentStatus reads the live status of one order; a missing row is pending.
func (r *Repository) PaymentStatus(ctx context.Context, albumID, clientID string) (payments.Status, error) {
	var row payments.PaymentStatus
	err := r.db.WithContext(ctx).
		First(&row, "album_id = ? AND client_id = ?", albumID, clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payments.StatusPending, nil
	}
	if err != nil {
		return "", err
	}
	return row.Status.OrPending(), nil
}

// SetPaymentStatus upserts the ledger row for (album, client). The policy is
// checked against the current value inside the same transaction. Storage
// failures come back as *payments.LedgerWriteError.
func (r *Repository) SetPaymentStatus(ctx context.Context, albumID, clientID string, status payments.Status, by uint, policy payments.Policy) (*payments.PaymentStatus, error) {
	row := payments.PaymentStatus{
		AlbumID:   albumID,
		ClientID:  clientID,
		Status:    status,
		UpdatedBy: by,
		UpdatedAt: r.now(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current payments.PaymentStatus
		err := tx.First(&current, "album_id = ? AND client_id = ?", albumID, clientID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := payments.CheckTransition(policy, current.Status, status); err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "album_id"}, {Name: "client_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_by", "updated_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, payments.ErrTransitionNotAllowed) {
			return nil, err
		}
		return nil, &payments.LedgerWriteError{AlbumID: albumID, ClientID: clientID, Err: err}
	}
	return &row, nil
}
