package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/ledger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/dto"
)

// FeeHandler serves the monthly fee endpoints
type FeeHandler struct {
	BaseHandler
	fees *ledger.FeeService
	bank *ledger.WasteBankService
}

// NewFeeHandler creates a new FeeHandler
func NewFeeHandler(fees *ledger.FeeService, bank *ledger.WasteBankService) *FeeHandler {
	return &FeeHandler{fees: fees, bank: bank}
}

// Create handles POST /fees
func (h *FeeHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	fee, err := h.fees.CreateFee(c.Request.Context(), p, ledger.CreateFeeInput{
		ResidentID:  uuid.MustParse(req.ResidentID),
		Amount:      req.Amount,
		Month:       req.Month,
		Year:        req.Year,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ToFeeResponse(fee))
}

// List handles GET /fees
func (h *FeeHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var q ListFeesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}
	residentID, err := optionalUUID(q.ResidentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fees, total, err := h.fees.ListFees(c.Request.Context(), p, ledger.ListFeesInput{
		ResidentID: residentID,
		Status:     q.Status,
		Month:      q.Month,
		Year:       q.Year,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, ToFeeResponses(fees), total, q.Page, q.PageSize)
}

// Get handles GET /fees/:id
func (h *FeeHandler) Get(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fee, err := h.fees.GetFee(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToFeeResponse(fee))
}

// SubmitTransfer handles POST /fees/:id/transfer, a multipart form with
// payment_method and the proof image
func (h *FeeHandler) SubmitTransfer(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	proof, err := readProof(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "Could not read the uploaded proof")
		return
	}

	fee, err := h.fees.SubmitTransferPayment(c.Request.Context(), p, ledger.SubmitTransferInput{
		FeeID:  id,
		Method: c.PostForm("payment_method"),
		Proof:  proof,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToFeeResponse(fee))
}

// readProof loads the "proof" form file. A missing file yields an empty
// upload, which the ledger rejects as PROOF_REQUIRED.
func readProof(c *gin.Context) (ledger.ProofUpload, error) {
	header, err := c.FormFile("proof")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return ledger.ProofUpload{}, nil
	}
	if err != nil {
		return ledger.ProofUpload{}, err
	}
	f, err := header.Open()
	if err != nil {
		return ledger.ProofUpload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ledger.ProofUpload{}, err
	}
	return ledger.ProofUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}, nil
}

// ProofURL handles GET /fees/:id/proof
func (h *FeeHandler) ProofURL(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	url, expiresAt, err := h.fees.ProofURL(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ProofURLResponse{URL: url, ExpiresAt: expiresAt})
}

// Verify handles POST /fees/:id/verify
func (h *FeeHandler) Verify(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	fee, err := h.fees.VerifyPayment(c.Request.Context(), p, ledger.VerifyPaymentInput{
		FeeID:  id,
		Action: ledger.VerifyAction(req.Action),
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToFeeResponse(fee))
}

// Settle handles POST /fees/:id/settle, paying the fee from the caller's
// waste bank balance
func (h *FeeHandler) Settle(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fee, balance, err := h.bank.SettleFeeWithBalance(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SettlementResponse{Fee: ToFeeResponse(fee), Balance: balance})
}

