package handler

import (
	"net/http"

	"scrapto/internal/middleware"
	"scrapto/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RateHandler struct {
	rateRepo *repository.RateRepository
}

func NewRateHandler(rateRepo *repository.RateRepository) *RateHandler {
	return &RateHandler{rateRepo: rateRepo}
}

// List handles GET /rates. Public, no auth required.
func (h *RateHandler) List(c *gin.Context) {
	rates, err := h.rateRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// Set handles PUT /admin/rates/:material.
func (h *RateHandler) Set(c *gin.Context) {
	material := c.Param("material")
	var req struct {
		PricePerKg decimal.Decimal `json:"price_per_kg" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PricePerKg.IsNegative() || req.PricePerKg.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_per_kg must be positive"})
		return
	}
	if err := h.rateRepo.Set(material, req.PricePerKg, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rate updated", "material": material, "price_per_kg": req.PricePerKg})
}
