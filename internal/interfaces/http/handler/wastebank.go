package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/ledger"
)

// WasteBankHandler serves deposit and balance endpoints
type WasteBankHandler struct {
	BaseHandler
	bank *ledger.WasteBankService
}

// NewWasteBankHandler creates a new WasteBankHandler
func NewWasteBankHandler(bank *ledger.WasteBankService) *WasteBankHandler {
	return &WasteBankHandler{bank: bank}
}

// RecordDeposit handles POST /waste-bank/deposits
func (h *WasteBankHandler) RecordDeposit(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req RecordDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entry, balance, err := h.bank.RecordDeposit(c.Request.Context(), p, ledger.RecordDepositInput{
		ResidentID: uuid.MustParse(req.ResidentID),
		WasteType:  req.WasteType,
		Weight:     req.Weight,
		PricePerKg: req.PricePerKg,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, DepositResponse{Entry: ToEntryResponse(entry), Balance: balance})
}

// ListEntries handles GET /waste-bank/deposits
func (h *WasteBankHandler) ListEntries(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var q ListEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}
	residentID, err := optionalUUID(q.ResidentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	entries, total, err := h.bank.ListEntries(c.Request.Context(), p, ledger.ListEntriesInput{
		ResidentID: residentID,
		Kind:       q.Kind,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	h.SuccessWithMeta(c, out, total, q.Page, q.PageSize)
}

// EditDeposit handles PUT /waste-bank/deposits/:id
func (h *WasteBankHandler) EditDeposit(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req EditDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entry, balance, err := h.bank.EditDeposit(c.Request.Context(), p, id, ledger.EditDepositInput{
		WasteType:  req.WasteType,
		Weight:     req.Weight,
		PricePerKg: req.PricePerKg,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DepositResponse{Entry: ToEntryResponse(entry), Balance: balance})
}

// DeleteDeposit handles DELETE /waste-bank/deposits/:id
func (h *WasteBankHandler) DeleteDeposit(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	balance, err := h.bank.DeleteDeposit(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted_id": id, "balance": balance})
}

// Balance handles GET /waste-bank/residents/:id/balance
func (h *WasteBankHandler) Balance(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	balance, err := h.bank.GetBalance(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BalanceResponse{ResidentID: id, Balance: balance})
}

// Reconcile handles GET /waste-bank/residents/:id/reconcile
func (h *WasteBankHandler) Reconcile(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rec, err := h.bank.ReconcileBalance(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"resident_id": rec.ResidentID,
		"cached":      rec.Cached,
		"ledger":      rec.Ledger,
		"drift":       rec.Drift,
		"in_sync":     rec.InSync(),
	})
}
