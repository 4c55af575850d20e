package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shelterly/server/internal/database"
	"shelterly/server/internal/filter"
	"shelterly/server/internal/gate"
	"shelterly/server/internal/models"
	"shelterly/server/internal/relay"
	"shelterly/server/internal/session"
	"shelterly/server/internal/store"
	"shelterly/server/internal/wishlist"
)

type Handler struct {
	db            *database.Database
	listings      *store.ListingStore
	engine        *filter.Engine
	gate          *gate.ViewGate
	wishlist      *wishlist.Store
	session       *session.Tracker
	notifications *relay.GormStore
	queue         *relay.NotificationQueue
	logger        *logrus.Logger
}

func NewHandler(
	db *database.Database,
	listings *store.ListingStore,
	engine *filter.Engine,
	viewGate *gate.ViewGate,
	wishlistStore *wishlist.Store,
	tracker *session.Tracker,
	notifications *relay.GormStore,
	queue *relay.NotificationQueue,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		db:            db,
		listings:      listings,
		engine:        engine,
		gate:          viewGate,
		wishlist:      wishlistStore,
		session:       tracker,
		notifications: notifications,
		queue:         queue,
		logger:        logger,
	}
}

type listingQuery struct {
	Query     string   `form:"q"`
	Location  string   `form:"location"`
	Lat       *float64 `form:"lat"`
	Lng       *float64 `form:"lng"`
	Category  string   `form:"category"`
	MinPrice  *int     `form:"min_price"`
	MaxPrice  *int     `form:"max_price"`
	RoomType  string   `form:"room_type"`
	Amenities string   `form:"amenities"`
	MinRating *float64 `form:"min_rating"`
	Sort      string   `form:"sort"`
}

// toSpec converts query parameters to a filter spec. Absent parameters
// add no constraint.
func (q *listingQuery) toSpec() filter.Spec {
	spec := filter.Spec{
		FreeText:     q.Query,
		LocationName: q.Location,
		Category:     filter.Category(q.Category),
		RoomType:     filter.RoomType(q.RoomType),
		MinRating:    q.MinRating,
	}
	if q.Lat != nil && q.Lng != nil {
		spec.GeoCenter = &filter.GeoCenter{Lat: *q.Lat, Lng: *q.Lng}
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		r := filter.PriceRange{Max: int(^uint(0) >> 1)}
		if q.MinPrice != nil {
			r.Min = *q.MinPrice
		}
		if q.MaxPrice != nil {
			r.Max = *q.MaxPrice
		}
		spec.PriceRange = &r
	}
	if q.Amenities != "" {
		spec.Amenities = parseAmenities(q.Amenities)
	}
	return spec
}

func parseAmenities(csv string) *filter.AmenityFilter {
	var af filter.AmenityFilter
	for _, name := range strings.Split(csv, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "wifi":
			af.WiFi = true
		case "television", "tv":
			af.Television = true
		case "food":
			af.Food = true
		case "refrigerator", "fridge":
			af.Refrigerator = true
		case "washing_machine", "laundry":
			af.WashingMachine = true
		case "housekeeping":
			af.Housekeeping = true
		case "parking":
			af.Parking = true
		case "security":
			af.Security = true
		case "lift":
			af.Lift = true
		case "power_backup":
			af.PowerBackup = true
		}
	}
	return &af
}

// GetListings returns the active listings matching the query parameters.
func (h *Handler) GetListings(c *gin.Context) {
	var query listingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	listings := h.listings.GetListings()
	matched := h.engine.Filter(listings, query.toSpec())
	matched = filter.SortListings(matched, filter.SortKey(query.Sort))

	c.JSON(http.StatusOK, matched)
}

// GetListing returns one listing by ID, recording the view against the
// free-view gate for anonymous visitors.
func (h *Handler) GetListing(c *gin.Context) {
	id := c.Param("id")

	var found *models.Listing
	for _, l := range h.listings.GetListings() {
		if l.ID == id {
			listing := l
			found = &listing
			break
		}
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if !h.session.Authenticated() && h.gate.HasExceededLimit() && !h.gate.HasViewed(id) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":        "Free view limit reached, please log in",
			"viewed_count": h.gate.ViewedCount(),
		})
		return
	}
	h.gate.RecordView(id)

	c.JSON(http.StatusOK, found)
}

type wishlistRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
}

// AddToWishlist saves a listing for the current user.
func (h *Handler) AddToWishlist(c *gin.Context) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse wishlist request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	var found *models.Listing
	for _, l := range h.listings.GetListings() {
		if l.ID == req.ListingID {
			listing := l
			found = &listing
			break
		}
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if err := h.wishlist.AddItem(*found); err != nil {
		if errors.Is(err, wishlist.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required to save listings"})
			return
		}
		h.logger.WithError(err).Error("Failed to add wishlist entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save listing"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"saved": true, "listing_id": req.ListingID})
}

// RemoveFromWishlist deletes a saved listing.
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	id := c.Param("id")

	if err := h.wishlist.RemoveItem(id); err != nil {
		if errors.Is(err, wishlist.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		h.logger.WithError(err).Error("Failed to remove wishlist entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": false, "listing_id": id})
}

// GetWishlist returns the current user's saved listings.
func (h *Handler) GetWishlist(c *gin.Context) {
	if !h.session.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
		return
	}

	entries := h.wishlist.Items()
	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, gin.H{
			"id":         entry.ID,
			"listing_id": entry.ListingID,
			"added_at":   entry.AddedAt,
			"snapshot":   entry.ListingSnapshot(),
		})
	}

	c.JSON(http.StatusOK, items)
}

type loginRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Login records the authenticated identity. The session tracker resets
// the view gate and refreshes the wishlist through its observers.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	h.session.Login(req.UserID)
	c.JSON(http.StatusOK, gin.H{"user_id": req.UserID})
}

func (h *Handler) Logout(c *gin.Context) {
	h.session.Logout()
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

type notificationRequest struct {
	UserID  string   `json:"user_id" binding:"required"`
	Kind    string   `json:"kind"`
	Devices []string `json:"devices" binding:"required"`

	Notification struct {
		Title       string `json:"title" binding:"required"`
		Body        string `json:"body" binding:"required"`
		Icon        string `json:"icon"`
		ClickAction string `json:"click_action"`
	} `json:"notification" binding:"required"`
}

// CreateNotification stores a pending notification record and hands it to
// the relay queue for immediate dispatch.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse notification request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	kind := models.NotificationKind(req.Kind)
	if kind == "" {
		kind = models.KindNotification
	}

	n := models.NewNotification(
		req.UserID,
		kind,
		req.Devices,
		req.Notification.Title,
		req.Notification.Body,
		req.Notification.Icon,
		req.Notification.ClickAction,
	)
	if err := h.notifications.Create(&n); err != nil {
		h.logger.WithError(err).Error("Failed to create notification")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	if err := h.queue.Push([]*models.Notification{&n}); err != nil {
		// The record stays pending; the hourly sweep will pick it up
		h.logger.WithError(err).Warn("Failed to queue notification for immediate dispatch")
	}

	c.JSON(http.StatusCreated, gin.H{"id": n.ID, "status": n.Status})
}

type deviceRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	Token    string `json:"token" binding:"required"`
	UserID   string `json:"user_id"`
}

// RegisterDevice stores a device's messaging token.
func (h *Handler) RegisterDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse device request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	if err := h.notifications.RegisterToken(req.DeviceID, req.Token, req.UserID); err != nil {
		h.logger.WithError(err).Error("Failed to register device token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"device_id": req.DeviceID})
}

// UpsertListings bulk-inserts listings from the onboarding/admin flow and
// invalidates the listing cache.
func (h *Handler) UpsertListings(c *gin.Context) {
	var listings []models.Listing
	if err := c.ShouldBindJSON(&listings); err != nil {
		h.logger.WithError(err).Error("Failed to parse listings payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	if err := h.db.InsertListings(listings); err != nil {
		h.logger.WithError(err).Error("Failed to insert listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert listings"})
		return
	}
	h.listings.Invalidate()

	c.JSON(http.StatusOK, gin.H{"inserted": len(listings)})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
