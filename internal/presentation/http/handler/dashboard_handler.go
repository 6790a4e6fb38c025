package handler

import (
	"time"

	"github.com/buzzcafe/billing-api/internal/application/service"
	"github.com/buzzcafe/billing-api/internal/presentation/http/dto/request"
	"github.com/buzzcafe/billing-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles analytics and export HTTP requests
type DashboardHandler struct {
	analyticsService *service.AnalyticsService
	exportService    *service.ExportService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analyticsService *service.AnalyticsService, exportService *service.ExportService) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetSummary returns the aggregated dashboard payload for a date range
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.GetSummary(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard summary retrieved successfully", summary)
}

// ExportCSV downloads the filtered invoice list as CSV
func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportCSV(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.AnalyticsCSVFilename+`"`)
	c.Data(200, "text/csv", data)
}

// ExportXLSX downloads the filtered invoice list as a spreadsheet
func (h *DashboardHandler) ExportXLSX(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportXLSX(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.AnalyticsXLSXFilename+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportPDF downloads the analytics summary report as PDF
func (h *DashboardHandler) ExportPDF(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportSummaryPDF(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.AnalyticsPDFFilename+`"`)
	c.Data(200, "application/pdf", data)
}

// dateRange parses the optional start_date/end_date query parameters
func (h *DashboardHandler) dateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var req request.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, nil, false
	}

	start, err := parseDateParam(req.StartDate, false)
	if err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return nil, nil, false
	}
	end, err := parseDateParam(req.EndDate, true)
	if err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return nil, nil, false
	}
	return start, end, true
}
