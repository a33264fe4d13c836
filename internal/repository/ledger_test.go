package repository

import (
	"context"
	"testing"

	"proofing-app/internal/domain/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatusDefaultsToPending(t *testing.T) {
	f := newFixture(t)

	status, err := f.repo.PaymentStatus(context.Background(), f.album.ID, "no-such-client")
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPending, status)
}

func TestSetPaymentStatusUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Ana", "ana@example.com")
	open := payments.PolicyFor(payments.PolicyOpen)

	row, err := f.repo.SetPaymentStatus(ctx, f.album.ID, c.ID, payments.StatusPaid, f.owner.ID, open)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPaid, row.Status)

	status, err := f.repo.PaymentStatus(ctx, f.album.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPaid, status)

	_, err = f.repo.SetPaymentStatus(ctx, f.album.ID, c.ID, payments.StatusCancelled, f.owner.ID, open)
	require.NoError(t, err)
	_, err = f.repo.SetPaymentStatus(ctx, f.album.ID, c.ID, payments.StatusPaid, f.owner.ID, open)
	require.NoError(t, err)

	ledger, err := f.repo.Ledger(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, payments.StatusPaid, ledger[0].Status)
	assert.Equal(t, f.owner.ID, ledger[0].UpdatedBy)
}

func TestSetPaymentStatusWorkflowRefusal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Ana", "ana@example.com")
	workflow := payments.PolicyFor(payments.PolicyWorkflow)

	_, err := f.repo.SetPaymentStatus(ctx, f.album.ID, c.ID, payments.StatusCancelled, f.owner.ID, workflow)
	require.NoError(t, err)

	_, err = f.repo.SetPaymentStatus(ctx, f.album.ID, c.ID, payments.StatusPaid, f.owner.ID, workflow)
	assert.ErrorIs(t, err, payments.ErrTransitionNotAllowed)

	status, err := f.repo.PaymentStatus(ctx, f.album.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusCancelled, status)
}

func TestLedgerScopedToPhotographer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Ana", "ana@example.com")

	_, err := f.repo.SetPaymentStatus(ctx, f.album.ID, c.ID, payments.StatusPaid, f.owner.ID, nil)
	require.NoError(t, err)

	ledger, err := f.repo.Ledger(ctx, f.owner.ID+1)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestSetPaymentStatusStorageFailure(t *testing.T) {
	f := newFixture(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.repo.SetPaymentStatus(context.Background(), f.album.ID, "c", payments.StatusPaid, f.owner.ID, nil)

	var we *payments.LedgerWriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, f.album.ID, we.AlbumID)
}
