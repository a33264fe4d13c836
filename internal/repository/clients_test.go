package repository

import (
	"context"
	"testing"

	"proofing-app/internal/domain/clients"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchOrCreateReusesByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	second, err := f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "Ana Maria", Email: "ANA@example.com "})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana", second.Name)

	var count int64
	require.NoError(t, f.db.Model(&clients.Client{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMatchOrCreateByWhatsappBackfillsEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "Bo", Whatsapp: "+55 11 9999-0000"})
	require.NoError(t, err)
	assert.Equal(t, "+551199990000", first.Whatsapp)

	second, err := f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "Bo", Email: "bo@example.com", Whatsapp: "+551199990000"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "bo@example.com", second.Email)

	var stored clients.Client
	require.NoError(t, f.db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, "bo@example.com", stored.Email)
}

func TestMatchOrCreateAmbiguous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "Bo", Whatsapp: "+5511"})
	require.NoError(t, err)

	_, err = f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "?", Email: "ana@example.com", Whatsapp: "+5511"})
	assert.ErrorIs(t, err, ErrAmbiguousClient)
}

func TestMatchOrCreateIsScopedToPhotographer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.repo.MatchOrCreateClient(ctx, f.owner.ID, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	theirs, err := f.repo.MatchOrCreateClient(ctx, f.owner.ID+1, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	assert.NotEqual(t, mine.ID, theirs.ID)
}
