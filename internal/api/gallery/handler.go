package gallery

import (
	"errors"
	"fmt"
	"net/http"

	"proofing-app/internal/domain/access"
	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/clients"
	"proofing-app/internal/domain/selections"
	gv "proofing-app/internal/gallery"
	"proofing-app/internal/logging"
	"proofing-app/internal/metrics"
	"proofing-app/internal/notify"
	"proofing-app/internal/repository"
	"proofing-app/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	visits     *gv.Registry
	gate       *access.Gate
	hub        *notify.Hub
	publicBase string
}

func NewHandler(visits *gv.Registry, gate *access.Gate, hub *notify.Hub, publicBase string) *Handler {
	return &Handler{visits: visits, gate: gate, hub: hub, publicBase: publicBase}
}

func (h *Handler) openVisit(c *gin.Context) (*gv.Visit, bool) {
	visitor := c.GetString("visitor_id")
	if visitor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing visitor"})
		return nil, false
	}

	v, err := h.visits.Open(c.Request.Context(), visitor, c.Param("token"))
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return v, true
}

// ------------------------------
// GET /g/:token
// ------------------------------
func (h *Handler) GetGallery(c *gin.Context) {
	v, ok := h.openVisit(c)
	if !ok {
		return
	}

	visit, err := h.visitDTO(c, v)
	if err != nil {
		h.writeError(c, err)
		return
	}

	album := v.Album()
	chosen := make(map[string]bool, len(visit.Selected))
	for _, id := range visit.Selected {
		chosen[id] = true
	}

	out := GalleryResponse{
		Album: AlbumDTO{
			Name:          album.Name,
			PricePerPhoto: album.PricePerPhoto,
			MaxSelections: album.MaxSelections,
			PhotoCount:    len(album.Photos),
		},
		Photos: make([]PhotoDTO, 0, len(album.Photos)),
		Visit:  visit,
	}
	for _, p := range album.Photos {
		out.Photos = append(out.Photos, PhotoDTO{
			ID:           p.ID,
			Filename:     p.Filename,
			OrderIndex:   p.OrderIndex,
			ThumbnailURL: h.gate.ThumbnailURL(p),
			Selected:     chosen[p.ID],
		})
	}

	c.JSON(http.StatusOK, out)
}

// ------------------------------
// POST /g/:token/identify
// ------------------------------
func (h *Handler) Identify(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, ok := h.openVisit(c)
	if !ok {
		return
	}

	id, err := h.visits.Identify(c.Request.Context(), v, clients.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Whatsapp: req.Whatsapp,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	logging.WithFields(map[string]interface{}{
		"album_id":  v.Album().ID,
		"client_id": id.ClientID,
	}).Info("client identified")

	h.respondVisit(c, v)
}

// ------------------------------
// POST /g/:token/toggle
// ------------------------------
func (h *Handler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, ok := h.openVisit(c)
	if !ok {
		return
	}

	selected, err := v.Machine.Toggle(req.PhotoID)
	if err != nil {
		metrics.SelectionToggles.WithLabelValues(toggleResult(err)).Inc()
		if errors.Is(err, selections.ErrQuotaExceeded) {
			c.JSON(http.StatusConflict, gin.H{
				"error":          fmt.Sprintf("You can select up to %d photos", v.Album().MaxSelections),
				"max_selections": v.Album().MaxSelections,
			})
			return
		}
		h.writeError(c, err)
		return
	}
	if selected {
		metrics.SelectionToggles.WithLabelValues("selected").Inc()
	} else {
		metrics.SelectionToggles.WithLabelValues("deselected").Inc()
	}

	visit, err := h.visitDTO(c, v)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{PhotoID: req.PhotoID, Selected: selected, Visit: visit})
}

// ------------------------------
// POST /g/:token/finish
// ------------------------------
func (h *Handler) Finish(c *gin.Context) {
	v, ok := h.openVisit(c)
	if !ok {
		return
	}

	if err := v.Machine.Finalize(c.Request.Context()); err != nil {
		metrics.Finalizations.WithLabelValues("failed").Inc()
		var fe *selections.FinalizeError
		if errors.As(err, &fe) {
			logging.Logger.WithError(fe.Err).WithField("album_id", v.Album().ID).Error("finalize failed")
		}
		h.writeError(c, err)
		return
	}
	metrics.Finalizations.WithLabelValues("ok").Inc()

	snap := v.Machine.Snapshot()
	h.hub.Publish(notify.Event{
		Type:           notify.EventSelectionFinalized,
		PhotographerID: v.Album().PhotographerID,
		AlbumID:        v.Album().ID,
		ClientID:       snap.ClientID,
	})

	h.respondVisit(c, v)
}

// ------------------------------
// POST /g/:token/review
// ------------------------------
func (h *Handler) Review(c *gin.Context) {
	v, ok := h.openVisit(c)
	if !ok {
		return
	}
	if err := v.Machine.Review(); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondVisit(c, v)
}

// ------------------------------
// GET /g/:token/photos/:photo_id/original
// ------------------------------
func (h *Handler) OriginalURL(c *gin.Context) {
	v, ok := h.openVisit(c)
	if !ok {
		return
	}

	photo, ok := findPhoto(v.Album().Photos, c.Param("photo_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}

	clientID := v.Machine.Snapshot().ClientID
	url, decision, err := h.gate.OriginalURL(c.Request.Context(), photo, v.Album().ID, clientID, h.publicBase)
	metrics.AssetDecisions.WithLabelValues(string(access.VariantOriginal), string(decision)).Inc()
	if err != nil {
		logging.Logger.WithError(err).WithField("photo_id", photo.ID).Error("asset authorization failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to check payment status"})
		return
	}
	if !decision.Allowed() {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Originals unlock once your order is paid"})
		return
	}

	c.JSON(http.StatusOK, OriginalURLResponse{URL: url, ExpiresIn: int(h.gate.TTL().Seconds())})
}

// ------------------------------
// GET /assets/original?token=
// ------------------------------
func (h *Handler) RedeemOriginal(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	url, decision, err := h.gate.Redeem(c.Request.Context(), token)
	metrics.AssetDecisions.WithLabelValues("original_redeem", string(decision)).Inc()
	if err != nil {
		if errors.Is(err, access.ErrInvalidAssetToken) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logging.Logger.WithError(err).Error("asset redeem failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to check payment status"})
		return
	}
	if !decision.Allowed() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Download no longer available"})
		return
	}

	c.Redirect(http.StatusFound, url)
}

func (h *Handler) respondVisit(c *gin.Context, v *gv.Visit) {
	visit, err := h.visitDTO(c, v)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visit": visit})
}

func (h *Handler) visitDTO(c *gin.Context, v *gv.Visit) (VisitDTO, error) {
	snap := v.Machine.Snapshot()

	id, err := v.Session.Resolve(c.Request.Context())
	if err != nil {
		return VisitDTO{}, err
	}
	status, err := h.visits.PaymentStatus(c.Request.Context(), v)
	if err != nil {
		return VisitDTO{}, err
	}

	return VisitDTO{
		State:         snap.State,
		Client:        id,
		Selected:      snap.Selected,
		MaxSelections: snap.MaxSelections,
		Remaining:     snap.Remaining,
		PaymentStatus: status,
		Capabilities:  access.CapabilitiesFor(snap.State, status),
		Total:         int64(len(snap.Selected)) * v.Album().PricePerPhoto,
	}, nil
}

func findPhoto(photos []albums.Photo, id string) (albums.Photo, bool) {
	for _, p := range photos {
		if p.ID == id {
			return p, true
		}
	}
	return albums.Photo{}, false
}

func toggleResult(err error) string {
	if errors.Is(err, selections.ErrQuotaExceeded) {
		return "quota_exceeded"
	}
	return "rejected"
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var fe *selections.FinalizeError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Gallery not found"})
	case errors.Is(err, session.ErrIncompleteContact):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrAmbiguousClient):
		c.JSON(http.StatusConflict, gin.H{"error": session.ErrIdentityResolution.Error(), "details": err.Error()})
	case errors.Is(err, session.ErrIdentityResolution):
		logging.Logger.WithError(err).Warn("identity resolution failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": session.ErrIdentityResolution.Error()})
	case errors.Is(err, selections.ErrIdentityRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": err.Error()})
	case errors.Is(err, selections.ErrUnknownPhoto):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, selections.ErrQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, selections.ErrEmptySelection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, selections.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &fe):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not save your selection, please try again"})
	default:
		logging.Logger.WithError(err).Error("gallery request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
