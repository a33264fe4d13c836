package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"proofing-app/internal/domain/access"
	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/orders"
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/logging"
	"proofing-app/internal/metrics"
	"proofing-app/internal/notify"

	"github.com/gin-gonic/gin"
)

// Store is the slice of the repository the dashboard reads and writes.
type Store interface {
	SelectionRecords(ctx context.Context, photographerID uint) ([]orders.Record, error)
	Ledger(ctx context.Context, photographerID uint) ([]payments.PaymentStatus, error)
	SetPaymentStatus(ctx context.Context, albumID, clientID string, status payments.Status, by uint, policy payments.Policy) (*payments.PaymentStatus, error)
	AlbumsByPhotographer(ctx context.Context, photographerID uint) ([]albums.Album, error)
	EnsureShareToken(ctx context.Context, a *albums.Album) (string, error)
}

type Handler struct {
	store      Store
	gate       *access.Gate
	hub        *notify.Hub
	policy     payments.Policy
	publicBase string
}

func NewHandler(store Store, gate *access.Gate, hub *notify.Hub, policy payments.Policy, publicBase string) *Handler {
	return &Handler{store: store, gate: gate, hub: hub, policy: policy, publicBase: publicBase}
}

// GET /orders
func (h *Handler) ListOrders(c *gin.Context) {
	photographerID := c.GetUint("photographer_id")
	ctx := c.Request.Context()

	start := time.Now()
	records, err := h.store.SelectionRecords(ctx, photographerID)
	if err != nil {
		logging.Logger.WithError(err).Error("load selections failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	ledger, err := h.store.Ledger(ctx, photographerID)
	if err != nil {
		logging.Logger.WithError(err).Error("load ledger failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	list := orders.Aggregate(photographerID, records, ledger)
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	out := OrdersResponse{
		Summary: orders.Summarize(list),
		Orders:  make([]OrderDTO, 0, len(list)),
	}
	if skipped := len(records) - out.Summary.Photos; skipped > 0 {
		logging.WithFields(map[string]interface{}{
			"photographer_id": photographerID,
			"skipped":         skipped,
		}).Debug("selections with unresolved album or client left out of orders")
	}
	for _, o := range list {
		out.Orders = append(out.Orders, h.orderDTO(o))
	}

	c.JSON(http.StatusOK, out)
}

// PUT /orders/:album_id/:client_id/status
func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := payments.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photographerID := c.GetUint("photographer_id")
	albumID := c.Param("album_id")
	clientID := c.Param("client_id")

	row, err := h.store.SetPaymentStatus(c.Request.Context(), albumID, clientID, status, photographerID, h.policy)
	if err != nil {
		metrics.LedgerWrites.WithLabelValues(string(status), "failed").Inc()

		var we *payments.LedgerWriteError
		switch {
		case errors.Is(err, payments.ErrTransitionNotAllowed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &we):
			logging.Logger.WithError(we.Err).WithFields(map[string]interface{}{
				"album_id":  albumID,
				"client_id": clientID,
			}).Error("ledger write failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		default:
			logging.Logger.WithError(err).Error("ledger write failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		}
		return
	}
	metrics.LedgerWrites.WithLabelValues(string(status), "ok").Inc()

	logging.WithFields(map[string]interface{}{
		"album_id":        albumID,
		"client_id":       clientID,
		"status":          status,
		"photographer_id": photographerID,
	}).Info("payment status updated")

	h.hub.Publish(notify.Event{
		Type:           notify.EventPaymentUpdated,
		PhotographerID: photographerID,
		AlbumID:        albumID,
		ClientID:       clientID,
		Status:         string(status),
	})

	c.JSON(http.StatusOK, StatusResponse{
		AlbumID:   row.AlbumID,
		ClientID:  row.ClientID,
		Status:    row.Status,
		UpdatedAt: row.UpdatedAt,
	})
}

// GET /albums
func (h *Handler) ListAlbums(c *gin.Context) {
	photographerID := c.GetUint("photographer_id")
	ctx := c.Request.Context()

	list, err := h.store.AlbumsByPhotographer(ctx, photographerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load albums"})
		return
	}

	out := make([]AlbumDTO, 0, len(list))
	for i := range list {
		a := &list[i]
		token, err := h.store.EnsureShareToken(ctx, a)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate share link", "details": err.Error()})
			return
		}
		out = append(out, AlbumDTO{
			ID:            a.ID,
			Name:          a.Name,
			PricePerPhoto: a.PricePerPhoto,
			MaxSelections: a.MaxSelections,
			Active:        a.Active,
			GalleryURL:    albums.GalleryURL(h.publicBase, token),
			CreatedAt:     a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) orderDTO(o orders.Order) OrderDTO {
	photos := make([]OrderPhoto, 0, len(o.Photos))
	for _, p := range o.Photos {
		photos = append(photos, OrderPhoto{
			ID:           p.ID,
			Filename:     p.Filename,
			ThumbnailURL: h.gate.ThumbnailURL(p),
		})
	}
	return OrderDTO{
		AlbumID:   o.AlbumID,
		AlbumName: o.AlbumName,
		Client: OrderClient{
			ID:       o.Client.ID,
			Name:     o.Client.Name,
			Email:    o.Client.Email,
			Whatsapp: o.Client.Whatsapp,
		},
		Status:     o.Status,
		PhotoCount: o.PhotoCount,
		UnitPrice:  o.UnitPrice,
		Total:      o.Total,
		LatestDate: o.LatestDate,
		Photos:     photos,
	}
}
