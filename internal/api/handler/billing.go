package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_club_server/config"
	"github.com/qs3c/recipe_club_server/internal/api/middleware"
	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/model/dto"
	"github.com/qs3c/recipe_club_server/internal/pkg/response"
	"github.com/qs3c/recipe_club_server/internal/service"
)

const webhookSecretHeader = "X-Webhook-Secret"

type BillingHandler struct {
	ledger       *service.LedgerService
	subscription *service.SubscriptionService
	cfg          *config.Config
}

func NewBillingHandler(
	ledger *service.LedgerService,
	subscription *service.SubscriptionService,
	cfg *config.Config,
) *BillingHandler {
	return &BillingHandler{
		ledger:       ledger,
		subscription: subscription,
		cfg:          cfg,
	}
}

// ListPlans 套餐列表
// GET /api/v1/plans
func (h *BillingHandler) ListPlans(c *gin.Context) {
	cadences := []string{model.CadenceMonthly, model.CadenceYearly}

	items := make([]*dto.PlanItem, 0, len(cadences))
	for _, cadence := range cadences {
		plan, ok := h.cfg.Billing.Plans[cadence]
		if !ok {
			continue
		}
		days, _ := service.PlanDays(cadence)
		items = append(items, &dto.PlanItem{
			Cadence:     cadence,
			DisplayName: plan.DisplayName,
			PriceCents:  plan.PriceCents,
			Description: plan.Description,
			Days:        days,
		})
	}

	response.Success(c, items)
}

// Checkout 发起支付，创建 PENDING 交易
// POST /api/v1/billing/checkout
func (h *BillingHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	txn, err := h.ledger.Open(userID, req.Amount, req.Cadence)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUnknownCadence):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, &dto.CheckoutResponse{
		TransactionID: txn.ID,
		Status:        txn.Status,
	})
}

// Webhook 支付渠道回调
// POST /api/v1/billing/webhook
// 渠道至少一次投递，重复回调靠 Finalize 的幂等契约吸收
func (h *BillingHandler) Webhook(c *gin.Context) {
	secret := h.cfg.Billing.WebhookSecret
	if secret == "" || c.GetHeader(webhookSecretHeader) != secret {
		response.AuthError(c, "回调鉴权失败")
		return
	}

	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	txn, err := h.ledger.Finalize(req.TransactionID, req.Outcome)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrConflictingFinalization):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, buildTransactionItem(txn))
}

// ListTransactions 用户的交易记录
// GET /api/v1/user/transactions
func (h *BillingHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	txns, err := h.ledger.ListByUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	items := make([]*dto.TransactionItem, len(txns))
	for i, txn := range txns {
		items[i] = buildTransactionItem(txn)
	}

	response.Success(c, items)
}

// GetSubscription 当前订阅窗口
// GET /api/v1/user/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	window, err := h.subscription.CurrentWindow(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	info := &dto.SubscriptionInfo{Status: window.Status}
	if window.EndsAt != nil {
		info.EndsAt = window.EndsAt.Format(time.RFC3339)
	}

	response.Success(c, info)
}

func buildTransactionItem(txn *model.Transaction) *dto.TransactionItem {
	item := &dto.TransactionItem{
		ID:        txn.ID,
		Amount:    txn.Amount,
		Cadence:   txn.Cadence,
		Status:    txn.Status,
		CreatedAt: txn.CreatedAt.Format(time.RFC3339),
	}
	if txn.FinalizedAt != nil {
		item.FinalizedAt = txn.FinalizedAt.Format(time.RFC3339)
	}
	return item
}
