package handler

import (
	"net/http"
	"strings"

	"scrapto/internal/middleware"
	"scrapto/internal/models"
	"scrapto/internal/repository"

	"github.com/gin-gonic/gin"
)

type ScrapperHandler struct {
	scrapperRepo *repository.ScrapperRepository
}

func NewScrapperHandler(scrapperRepo *repository.ScrapperRepository) *ScrapperHandler {
	return &ScrapperHandler{scrapperRepo: scrapperRepo}
}

// GetProfile handles GET /me/scrapper-profile.
func (h *ScrapperHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	p, err := h.scrapperRepo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not set up yet"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpsertProfile handles PUT /me/scrapper-profile. KYC verification is
// admin-only and cannot be set here.
func (h *ScrapperHandler) UpsertProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		DisplayName    string   `json:"display_name" binding:"required,max=100"`
		VehicleType    string   `json:"vehicle_type" binding:"omitempty,oneof=CART BIKE TEMPO TRUCK"`
		ServiceArea    string   `json:"service_area"`
		Materials      []string `json:"materials"`
		KYCDocumentURL string   `json:"kyc_document_url"`
		IsAvailable    *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.ScrapperProfile{
		UserID:         userID,
		DisplayName:    req.DisplayName,
		VehicleType:    req.VehicleType,
		ServiceArea:    req.ServiceArea,
		Materials:      strings.Join(req.Materials, ","),
		KYCDocumentURL: req.KYCDocumentURL,
		IsAvailable:    true,
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}
	if existing, err := h.scrapperRepo.GetByUserID(userID); err == nil {
		p.KYCVerified = existing.KYCVerified
		if req.KYCDocumentURL == "" {
			p.KYCDocumentURL = existing.KYCDocumentURL
		}
	}
	if err := h.scrapperRepo.Upsert(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}
