package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailytaiyari/backend/internal/requestdata"
	"github.com/dailytaiyari/backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (ah *AnalyticsHandler) Dashboard(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	dashboard, err := ah.analyticsService.GetDashboard(c.Request.Context(), rd.StudentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, dashboard)
}

func (ah *AnalyticsHandler) WeeklyReport(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	weekStart := time.Now().UTC()
	if raw := c.Query("week"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("week must be YYYY-MM-DD"))
			return
		}
		weekStart = parsed
	}
	report, err := ah.analyticsService.GenerateWeeklyReport(c.Request.Context(), rd.StudentID, weekStart)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, report)
}

func (ah *AnalyticsHandler) ListWeeklyReports(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	reports, err := ah.analyticsService.ListWeeklyReports(c.Request.Context(), rd.StudentID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"reports": reports})
}
