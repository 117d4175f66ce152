package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/report"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves recaps, exports and receipts
type ReportHandler struct {
	BaseHandler
	reports *report.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RecapQuery selects the billing month of a recap
type RecapQuery struct {
	Month string `form:"month" binding:"required,month"`
	Year  int    `form:"year" binding:"required,min=2000,max=2100"`
}

// RecapResponse is a monthly recap with its collection rate
type RecapResponse struct {
	*report.Recap
	CollectionRate decimal.Decimal `json:"collection_rate"`
}

// Recap handles GET /reports/fees/recap
func (h *ReportHandler) Recap(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var q RecapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}
	recap, err := h.reports.MonthlyRecap(c.Request.Context(), p, q.Month, q.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RecapResponse{Recap: recap, CollectionRate: recap.CollectionRate()})
}

// RecapXLSX handles GET /reports/fees/recap.xlsx
func (h *ReportHandler) RecapXLSX(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var q RecapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}
	data, filename, err := h.reports.ExportRecapXLSX(c.Request.Context(), p, q.Month, q.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Receipt handles GET /fees/:id/receipt.pdf
func (h *ReportHandler) Receipt(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.reports.FeeReceiptPDF(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	c.Data(http.StatusOK, "application/pdf", data)
}
