package handler

import (
	"net/http"
	"strconv"

	"scrapto/internal/middleware"
	"scrapto/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PickupHandler struct {
	svc *service.PickupService
}

func NewPickupHandler(svc *service.PickupService) *PickupHandler {
	return &PickupHandler{svc: svc}
}

// Estimate handles GET /pickups/estimate?material=&weight= — quote without
// creating anything.
func (h *PickupHandler) Estimate(c *gin.Context) {
	material := c.Query("material")
	weight, err := decimal.NewFromString(c.DefaultQuery("weight", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weight"})
		return
	}
	rate, amount, err := h.svc.Estimate(material, weight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"material":         rate.Material,
		"price_per_kg":     rate.PricePerKg,
		"estimated_amount": amount,
	})
}

// Create handles POST /pickups.
func (h *PickupHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Material          string          `json:"material" binding:"required"`
		EstimatedWeightKg decimal.Decimal `json:"estimated_weight_kg" binding:"required"`
		Address           string          `json:"address" binding:"required"`
		Notes             string          `json:"notes"`
		Photos            []string        `json:"photos"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Submit(userID, service.SubmitPickupInput{
		Material:          req.Material,
		EstimatedWeightKg: req.EstimatedWeightKg,
		Address:           req.Address,
		Notes:             req.Notes,
		Photos:            req.Photos,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListMine handles GET /pickups/mine for households.
func (h *PickupHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	list, pagination, err := h.svc.ListForUser(userID, c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickups": list, "pagination": pagination})
}

// ListAssigned handles GET /pickups/assigned for scrappers.
func (h *PickupHandler) ListAssigned(c *gin.Context) {
	scrapperID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	list, pagination, err := h.svc.ListForScrapper(scrapperID, c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickups": list, "pagination": pagination})
}

// ListOpen handles GET /pickups/open — unclaimed requests for scrappers.
func (h *PickupHandler) ListOpen(c *gin.Context) {
	page, limit := parsePagination(c)
	list, pagination, err := h.svc.ListOpen(c.Query("material"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickups": list, "pagination": pagination})
}

// Accept handles PATCH /pickups/:id/accept (scrapper).
func (h *PickupHandler) Accept(c *gin.Context) {
	scrapperID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := h.svc.Accept(uint(id), scrapperID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Collect handles PATCH /pickups/:id/collect (scrapper) with the weighed amount.
func (h *PickupHandler) Collect(c *gin.Context) {
	scrapperID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		ActualWeightKg decimal.Decimal `json:"actual_weight_kg" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Collect(uint(id), scrapperID, req.ActualWeightKg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Cancel handles PATCH /pickups/:id/cancel (owner, while unclaimed).
func (h *PickupHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := h.svc.Cancel(uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
