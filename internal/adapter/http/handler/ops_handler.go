package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OpsHandler serves the internal operations API.
type OpsHandler struct {
	ledgerSvc   ports.LedgerService
	transferSvc ports.TransferService
	queue       ports.JobQueue
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(ledgerSvc ports.LedgerService, transferSvc ports.TransferService, queue ports.JobQueue) *OpsHandler {
	return &OpsHandler{
		ledgerSvc:   ledgerSvc,
		transferSvc: transferSvc,
		queue:       queue,
	}
}

// GetWallet handles GET /internal/v1/wallets/:id.
func (h *OpsHandler) GetWallet(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}

	w, err := h.ledgerSvc.GetWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(w))
}

// ListEntries handles GET /internal/v1/wallets/:id/entries.
func (h *OpsHandler) ListEntries(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}

	var q dto.EntryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params := ports.EntryListParams{
		WalletID:  id,
		Reference: q.Reference,
		Page:      q.Page,
		PageSize:  q.PageSize,
	}
	if q.Status != "" {
		status := domain.EntryStatus(q.Status)
		params.Status = &status
	}
	if q.Type != "" {
		typ := domain.EntryType(q.Type)
		params.Type = &typ
	}
	if q.Scope != "" {
		scope := domain.EntryScope(q.Scope)
		params.Scope = &scope
	}

	entries, total, err := h.ledgerSvc.ListEntries(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	response.Page(c, dto.NewEntryListResponse(entries), page, pageSize, total)
}

// VerifyWallet handles GET /internal/v1/wallets/:id/verify.
func (h *OpsHandler) VerifyWallet(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}

	v, err := h.ledgerSvc.VerifyWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, v)
}

// InitiateTransfer handles POST /internal/v1/transfers.
func (h *OpsHandler) InitiateTransfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	transfer := ports.TransferInitiation{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		WalletID:       uuid.MustParse(req.WalletID),
		Amount:         req.Amount,
		Currency:       req.Currency,
		Provider:       domain.ProviderName(req.Provider),
		Scope:          domain.EntryScope(req.Scope),
		Reference:      req.Reference,
		Narration:      req.Narration,
		Counterparty: ports.Counterparty{
			AccountNumber: req.AccountNumber,
			BankCode:      req.BankCode,
			AccountName:   req.AccountName,
		},
	}
	if req.BudgetID != nil {
		budgetID := uuid.MustParse(*req.BudgetID)
		transfer.BudgetID = &budgetID
	}

	entry, err := h.transferSvc.Initiate(c.Request.Context(), transfer)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxAuditResourceID, entry.ID.String())
	response.Created(c, dto.NewEntryResponse(entry))
}

// TriggerClearance handles POST /internal/v1/clearance/sweep. The sweep runs
// on a worker; the response only confirms it was queued.
func (h *OpsHandler) TriggerClearance(c *gin.Context) {
	job, err := domain.NewJob(domain.JobAddWalletEntriesForClearance, domain.ClearanceSweepPayload{
		RequestedBy: c.GetString(middleware.CtxSubject),
	})
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if err := h.queue.Enqueue(c.Request.Context(), job); err != nil {
		response.Error(c, apperror.ErrQueueUnavailable(err))
		return
	}

	c.Set(middleware.CtxAuditResourceID, job.ID.String())
	response.Accepted(c, dto.SweepResponse{JobID: job.ID.String(), Status: string(ports.OutcomeQueued)})
}

func walletID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
