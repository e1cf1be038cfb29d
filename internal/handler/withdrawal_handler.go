package handler

import (
	"net/http"

	"scrapto/internal/domain"
	"scrapto/internal/middleware"
	"scrapto/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	svc *service.WithdrawalService
}

func NewWithdrawalHandler(svc *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{svc: svc}
}

// Create handles POST /me/withdrawals. The requester kind is derived from the
// authenticated role, never from the request body.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	if role != domain.RoleUser && role != domain.RoleScrapper {
		c.JSON(http.StatusForbidden, gin.H{"error": "only users and scrappers can withdraw"})
		return
	}
	requesterType := domain.RequesterTypeUser
	if role == domain.RoleScrapper {
		requesterType = domain.RequesterTypeScrapper
	}

	var req struct {
		Amount       decimal.Decimal `json:"amount" binding:"required"`
		PayoutMethod struct {
			Method            string `json:"method" binding:"required"`
			AccountHolderName string `json:"accountHolderName"`
			AccountNumber     string `json:"accountNumber"`
			IFSCCode          string `json:"ifscCode"`
			BankName          string `json:"bankName"`
			UPIID             string `json:"upiId"`
		} `json:"payoutMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.svc.Submit(userID, requesterType, service.SubmitWithdrawalInput{
		Amount:            req.Amount,
		PayoutMethod:      req.PayoutMethod.Method,
		AccountHolderName: req.PayoutMethod.AccountHolderName,
		AccountNumber:     req.PayoutMethod.AccountNumber,
		IFSCCode:          req.PayoutMethod.IFSCCode,
		BankName:          req.PayoutMethod.BankName,
		UPIID:             req.PayoutMethod.UPIID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// ListMine handles GET /me/withdrawals.
func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	requesterType := domain.RequesterTypeUser
	if middleware.GetRole(c) == domain.RoleScrapper {
		requesterType = domain.RequesterTypeScrapper
	}
	page, limit := parsePagination(c)
	list, pagination, err := h.svc.ListForRequester(userID, requesterType, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list, "pagination": pagination})
}

// Get handles GET /me/withdrawals/:id. Admins may fetch any request;
// everyone else only their own.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	w, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if middleware.GetRole(c) != domain.RoleAdmin && w.RequesterID != middleware.GetUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal request not found"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// ListAll handles GET /admin/withdrawals with optional status filter.
func (h *WithdrawalHandler) ListAll(c *gin.Context) {
	status := c.Query("status")
	page, limit := parsePagination(c)
	list, pagination, err := h.svc.List(status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list, "pagination": pagination})
}

// Resolve handles PATCH /admin/withdrawals/:id — the single admin action that
// moves a request out of PENDING.
func (h *WithdrawalHandler) Resolve(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	requestID := c.Param("id")
	var req struct {
		Status        string `json:"status" binding:"required"`
		Remarks       string `json:"remarks"`
		TransactionID string `json:"transactionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.svc.Resolve(adminID, requestID, service.ResolveWithdrawalInput{
		Status:        req.Status,
		Remarks:       req.Remarks,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
