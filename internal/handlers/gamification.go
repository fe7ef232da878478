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

type GamificationHandler struct {
	gamificationService services.GamificationService
}

func NewGamificationHandler(gamificationService services.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

func (gh *GamificationHandler) BadgeCatalog(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	badges, err := gh.gamificationService.BadgeCatalog(c.Request.Context(), rd.StudentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"badges": badges})
}

func (gh *GamificationHandler) MyBadges(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	badges, err := gh.gamificationService.ListBadges(c.Request.Context(), rd.StudentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"badges": badges})
}

func (gh *GamificationHandler) CheckNewBadges(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	awarded, err := gh.gamificationService.CheckNewBadges(c.Request.Context(), rd.StudentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"new_badges": awarded})
}

func (gh *GamificationHandler) XPSummary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	summary, err := gh.gamificationService.XPSummary(c.Request.Context(), rd.StudentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

func (gh *GamificationHandler) XPHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	rows, err := gh.gamificationService.XPHistory(c.Request.Context(), rd.StudentID, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"transactions": rows})
}
