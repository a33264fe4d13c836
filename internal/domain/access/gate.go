package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/payments"
)

// LedgerReader returns the current status for an order, pending when no row
// exists.
type LedgerReader interface {
	PaymentStatus(ctx context.Context, albumID, clientID string) (payments.Status, error)
}

// Gate evaluates every request against the live ledger. It keeps no verdicts.
type Gate struct {
	ledger  LedgerReader
	signer  *Signer
	baseURL string
}

func NewGate(ledger LedgerReader, signer *Signer, blobBaseURL string) *Gate {
	return &Gate{ledger: ledger, signer: signer, baseURL: strings.TrimRight(blobBaseURL, "/")}
}

// Authorize decides access to one photo variant for one client.
func (g *Gate) Authorize(ctx context.Context, photo albums.Photo, albumID, clientID string, variant Variant) (Decision, error) {
	if photo.AlbumID != albumID {
		return Denied, nil
	}
	if variant == VariantThumbnail {
		return Allowed, nil
	}
	if clientID == "" {
		return Denied, nil
	}

	status, err := g.ledger.PaymentStatus(ctx, albumID, clientID)
	if err != nil {
		return Denied, fmt.Errorf("read payment status: %w", err)
	}
	return Decide(variant, status), nil
}

// ThumbnailURL is public; thumbnails never need payment.
func (g *Gate) ThumbnailURL(photo albums.Photo) string {
	return g.BlobURL(photo.ThumbnailKey)
}

// OriginalURL returns a signed, short-lived link when the client may download
// the original. The link is re-checked against the ledger when redeemed.
func (g *Gate) OriginalURL(ctx context.Context, photo albums.Photo, albumID, clientID, redeemBase string) (string, Decision, error) {
	decision, err := g.Authorize(ctx, photo, albumID, clientID, VariantOriginal)
	if err != nil || !decision.Allowed() {
		return "", decision, err
	}

	token, _, err := g.signer.Sign(AssetClaims{
		Key:      photo.OriginalKey,
		AlbumID:  albumID,
		ClientID: clientID,
		PhotoID:  photo.ID,
	})
	if err != nil {
		return "", Denied, err
	}
	return strings.TrimRight(redeemBase, "/") + "/assets/original?token=" + token, Allowed, nil
}

// Redeem validates a signed link and re-reads the ledger. It returns the blob
// URL to redirect to.
func (g *Gate) Redeem(ctx context.Context, token string) (string, Decision, error) {
	claims, err := g.signer.Verify(token)
	if err != nil {
		return "", Denied, err
	}

	status, err := g.ledger.PaymentStatus(ctx, claims.AlbumID, claims.ClientID)
	if err != nil {
		return "", Denied, fmt.Errorf("read payment status: %w", err)
	}
	if !Decide(VariantOriginal, status).Allowed() {
		return "", Denied, nil
	}
	return g.BlobURL(claims.Key), Allowed, nil
}

func (g *Gate) BlobURL(key string) string {
	return g.baseURL + "/" + strings.TrimLeft(key, "/")
}

// TTL exposes how long issued links stay valid.
func (g *Gate) TTL() time.Duration {
	return g.signer.ttl
}
