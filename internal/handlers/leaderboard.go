package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailytaiyari/backend/internal/requestdata"
	"github.com/dailytaiyari/backend/internal/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (lh *LeaderboardHandler) Get(c *gin.Context) {
	period := c.DefaultQuery("period", services.PeriodWeekly)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	examID, eErr := parseExamScope(c)
	if eErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", eErr)
		return
	}

	entries, err := lh.leaderboardService.Get(c.Request.Context(), period, examID, limit)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	RespondOK(c, gin.H{"period": period, "exam_id": examID, "entries": entries})
}

// parseExamScope reads the optional exam_id query parameter; absent means
// the global board.
func parseExamScope(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("exam_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid exam_id: %w", err)
	}
	return &id, nil
}

// Refresh recomputes every period's snapshot on demand, ahead of the
// scheduled cadence.
func (lh *LeaderboardHandler) Refresh(c *gin.Context) {
	if err := lh.leaderboardService.RefreshAll(c.Request.Context()); err != nil {
		RespondError(c, http.StatusInternalServerError, "refresh_failed", err)
		return
	}
	RespondOK(c, gin.H{"refreshed": true})
}

func (lh *LeaderboardHandler) MyRank(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	period := c.DefaultQuery("period", services.PeriodWeekly)
	examID, eErr := parseExamScope(c)
	if eErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", eErr)
		return
	}
	entry, err := lh.leaderboardService.StudentRank(c.Request.Context(), period, examID, rd.StudentID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	RespondOK(c, gin.H{"period": period, "exam_id": examID, "entry": entry})
}
