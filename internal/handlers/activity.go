package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailytaiyari/backend/internal/requestdata"
	"github.com/dailytaiyari/backend/internal/services"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

type quizCompletionRequest struct {
	TopicID         string `json:"topic_id" validate:"required,uuid4"`
	ExamID          string `json:"exam_id" validate:"omitempty,uuid4"`
	CorrectAnswers  int    `json:"correct_answers" validate:"gte=0"`
	TotalQuestions  int    `json:"total_questions" validate:"gt=0"`
	AvgTimeSeconds  int    `json:"avg_time_seconds" validate:"gte=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
	MockTest        bool   `json:"mock_test"`
	DailyChallenge  bool   `json:"daily_challenge"`
	CompletedAt     string `json:"completed_at" validate:"omitempty"`
}

// CompleteQuiz absorbs one finished quiz into the progression state.
func (vh *ActivityHandler) CompleteQuiz(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.StudentID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no student profile in context"))
		return
	}

	var req quizCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	if req.CorrectAnswers > req.TotalQuestions {
		RespondError(c, http.StatusBadRequest, "validation_failed", fmt.Errorf("correct_answers exceeds total_questions"))
		return
	}

	topicID, tErr := uuid.Parse(req.TopicID)
	if tErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid topic_id"))
		return
	}
	var examID *uuid.UUID
	if req.ExamID != "" {
		parsed, eErr := uuid.Parse(req.ExamID)
		if eErr != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid exam_id"))
			return
		}
		examID = &parsed
	}
	completedAt := time.Now().UTC()
	if req.CompletedAt != "" {
		parsed, cErr := time.Parse(time.RFC3339, req.CompletedAt)
		if cErr != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("completed_at must be RFC3339"))
			return
		}
		completedAt = parsed
	}

	outcome, err := vh.activityService.RecordQuizCompletion(c.Request.Context(), services.QuizResult{
		StudentID:       rd.StudentID,
		TopicID:         topicID,
		ExamID:          examID,
		CorrectAnswers:  req.CorrectAnswers,
		TotalQuestions:  req.TotalQuestions,
		AvgTimeSeconds:  req.AvgTimeSeconds,
		DurationMinutes: req.DurationMinutes,
		MockTest:        req.MockTest,
		DailyChallenge:  req.DailyChallenge,
		CompletedAt:     completedAt,
	})
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "absorb_failed", err)
		return
	}
	RespondOK(c, outcome)
}
