package repository

import (
	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/domain/selections"

	"gorm.io/gorm"
)

func photographerAlbumIDs(db *gorm.DB, photographerID uint) *gorm.DB {
	return db.Model(&albums.Album{}).
		Select("id").
		Where("photographer_id = ?", photographerID)
}

func photographerSelectionsQuery(db *gorm.DB, photographerID uint) *gorm.DB {
	return db.Model(&selections.Selection{}).
		Where("album_id IN (?)", photographerAlbumIDs(db.Session(&gorm.Session{NewDB: true}), photographerID))
}

func photographerLedgerQuery(db *gorm.DB, photographerID uint) *gorm.DB {
	return db.Model(&payments.PaymentStatus{}).
		Where("album_id IN (?)", photographerAlbumIDs(db.Session(&gorm.Session{NewDB: true}), photographerID))
}

func orderSelectionsQuery(db *gorm.DB, albumID, clientID string) *gorm.DB {
	return db.Model(&selections.Selection{}).
		Where("album_id = ? AND client_id = ?", albumID, clientID)
}
