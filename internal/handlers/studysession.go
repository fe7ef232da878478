package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailytaiyari/backend/internal/requestdata"
	"github.com/dailytaiyari/backend/internal/services"
)

type StudySessionHandler struct {
	sessionService services.StudySessionService
}

func NewStudySessionHandler(sessionService services.StudySessionService) *StudySessionHandler {
	return &StudySessionHandler{sessionService: sessionService}
}

func (sh *StudySessionHandler) Start(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	var req struct {
		ExamID string `json:"exam_id"`
	}
	_ = c.ShouldBindJSON(&req)
	var examID *uuid.UUID
	if req.ExamID != "" {
		parsed, err := uuid.Parse(req.ExamID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid exam_id"))
			return
		}
		examID = &parsed
	}
	session, err := sh.sessionService.Start(c.Request.Context(), rd.StudentID, examID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, session)
}

func (sh *StudySessionHandler) Heartbeat(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid session id"))
		return
	}
	if err := sh.sessionService.Heartbeat(c.Request.Context(), rd.StudentID, sessionID); err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}

func (sh *StudySessionHandler) End(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid session id"))
		return
	}
	session, err := sh.sessionService.End(c.Request.Context(), rd.StudentID, sessionID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	RespondOK(c, session)
}
