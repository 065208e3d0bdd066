package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_club_server/internal/model/dto"
	"github.com/qs3c/recipe_club_server/internal/pkg/response"
	"github.com/qs3c/recipe_club_server/internal/service"
)

type AdminHandler struct {
	ledger *service.LedgerService
}

func NewAdminHandler(ledger *service.LedgerService) *AdminHandler {
	return &AdminHandler{
		ledger: ledger,
	}
}

// FinalizeTransaction 手工推进交易终态
// POST /api/v1/admin/transactions/:id/finalize
// 给收不到渠道回调的环境（本地开发等）用，走和回调完全相同的 Finalize 入口
func (h *AdminHandler) FinalizeTransaction(c *gin.Context) {
	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的交易ID")
		return
	}

	var req dto.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	txn, err := h.ledger.Finalize(transactionID, req.Outcome)
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

	response.SuccessWithMessage(c, "已处理", buildTransactionItem(txn))
}
