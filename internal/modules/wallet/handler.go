package wallet

import (
	"errors"
	"net/http"

	"designmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	wallets := rg.Group("/wallets")
	{
		wallets.GET("/me", h.GetMyBalance)
		wallets.POST("/me/deposit", h.Deposit)
		wallets.POST("/me/withdraw", h.Withdraw)
		wallets.GET("/me/transactions", h.ListMyTransactions)
	}
}

type amountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

func (h *Handler) GetMyBalance(c *gin.Context) {
	userID := c.GetInt64("user_id")

	wallet, err := h.service.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get wallet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": wallet.Balance})
}

func (h *Handler) Deposit(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wallet, txn, err := h.service.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to deposit funds")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet, "transaction": txn})
}

func (h *Handler) Withdraw(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wallet, txn, err := h.service.Withdraw(c.Request.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		case errors.Is(err, ErrInsufficientFunds):
			response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", err.Error())
			return
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to withdraw funds")
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet, "transaction": txn})
}

func (h *Handler) ListMyTransactions(c *gin.Context) {
	userID := c.GetInt64("user_id")

	txns, err := h.service.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list transactions")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}
