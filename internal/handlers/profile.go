package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailytaiyari/backend/internal/requestdata"
	"github.com/dailytaiyari/backend/internal/services"
)

const maxAvatarUploadBytes = 5 << 20

type ProfileHandler struct {
	studentService services.StudentService
}

func NewProfileHandler(studentService services.StudentService) *ProfileHandler {
	return &ProfileHandler{studentService: studentService}
}

func (ph *ProfileHandler) Me(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no user in context"))
		return
	}
	user, profile, err := ph.studentService.GetMe(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	RespondOK(c, gin.H{"user": user, "profile": profile})
}

type profileUpdateRequest struct {
	DailyStudyGoalMinutes *int    `json:"daily_study_goal_minutes" validate:"omitempty,gte=0,lte=1440"`
	PrimaryExamID         *string `json:"primary_exam_id" validate:"omitempty,uuid4"`
	FirstName             *string `json:"first_name" validate:"omitempty,max=64"`
	LastName              *string `json:"last_name" validate:"omitempty,max=64"`
}

func (ph *ProfileHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no user in context"))
		return
	}
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	update := services.ProfileUpdate{
		DailyStudyGoalMinutes: req.DailyStudyGoalMinutes,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
	}
	if req.PrimaryExamID != nil {
		parsed, err := uuid.Parse(*req.PrimaryExamID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid primary_exam_id"))
			return
		}
		update.PrimaryExamID = &parsed
	}

	profile, err := ph.studentService.UpdateProfile(c.Request.Context(), rd.UserID, update)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_failed", err)
		return
	}
	RespondOK(c, profile)
}

func (ph *ProfileHandler) UploadAvatar(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no user in context"))
		return
	}
	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("avatar file required"))
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(io.LimitReader(file, maxAvatarUploadBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("failed to read upload"))
		return
	}
	if len(raw) > maxAvatarUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "too_large", fmt.Errorf("avatar exceeds %d bytes", maxAvatarUploadBytes))
		return
	}
	user, err := ph.studentService.UploadAvatar(c.Request.Context(), rd.UserID, raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "upload_failed", err)
		return
	}
	RespondOK(c, user)
}

func (ph *ProfileHandler) ListExams(c *gin.Context) {
	exams, err := ph.studentService.ListExams(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"exams": exams})
}

func (ph *ProfileHandler) ListTopics(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid exam id"))
		return
	}
	topics, err := ph.studentService.ListTopics(c.Request.Context(), examID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"topics": topics})
}
