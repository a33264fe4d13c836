package repository

import (
	"context"
	"testing"
	"time"

	"proofing-app/database"
	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/clients"
	"proofing-app/internal/domain/photographers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db     *gorm.DB
	repo   *Repository
	owner  photographers.Photographer
	album  albums.Album
	photos []albums.Photo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	owner := photographers.Photographer{Name: "Lia", Email: "lia@example.com", Role: photographers.RolePhotographer}
	require.NoError(t, db.Create(&owner).Error)

	album := albums.Album{
		PhotographerID: owner.ID,
		Name:           "Wedding",
		PricePerPhoto:  15,
		MaxSelections:  3,
		Photos: []albums.Photo{
			{Filename: "a.jpg", OriginalKey: "o/a.jpg", ThumbnailKey: "t/a.jpg", OrderIndex: 2},
			{Filename: "b.jpg", OriginalKey: "o/b.jpg", ThumbnailKey: "t/b.jpg", OrderIndex: 0},
			{Filename: "c.jpg", OriginalKey: "o/c.jpg", ThumbnailKey: "t/c.jpg", OrderIndex: 1},
		},
	}
	require.NoError(t, db.Create(&album).Error)

	repo := New(db)
	return &fixture{db: db, repo: repo, owner: owner, album: album, photos: album.Photos}
}

func (f *fixture) client(t *testing.T, name, email string) clients.Client {
	t.Helper()
	c, err := f.repo.MatchOrCreateClient(context.Background(), f.owner.ID, clients.Contact{Name: name, Email: email})
	require.NoError(t, err)
	return *c
}

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}
