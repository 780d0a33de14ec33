package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"feedbackhub/models"
	"feedbackhub/services"

	"github.com/gin-gonic/gin"
)

const (
	thankYouMessage = "Thank you! Your feedback has been recorded."
	appVersion      = "Feedback Form System - Version 2.0"
)

// FormPage serves the static feedback form with a permissive framing policy
// so the form can be embedded cross-origin.
func FormPage(c *gin.Context) {
	c.Header("X-Frame-Options", "ALLOWALL")
	c.File("./web/index.html")
}

// SubmitFeedback handles the interactive submit: the body is an
// already-structured JSON submission. Failures carry a non-200 status so the
// caller can treat the response as a failure indicator.
func SubmitFeedback(c *gin.Context) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, models.SubmitResponse{
			Success: false,
			Message: "Failed to save feedback: " + err.Error(),
		})
		return
	}

	rowNumber, err := services.GetFeedbackService().SubmitFeedback(c.Request.Context(), &sub)
	if err != nil {
		log.Printf("Error in SubmitFeedback: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidSubmission) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.SubmitResponse{
			Success: false,
			Message: "Failed to save feedback: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SubmitResponse{
		Success:   true,
		Message:   thankYouMessage,
		RowNumber: rowNumber,
	})
}

// PostFeedback handles the generic POST endpoint. The body may be JSON or
// URL-encoded form fields; both are normalized into the same submission
// shape. The response is always a 200 with the JSON envelope, never a
// transport-level error.
func PostFeedback(c *gin.Context) {
	sub, err := parseSubmission(c)
	if err == nil {
		var rowNumber int64
		rowNumber, err = services.GetFeedbackService().SubmitFeedback(c.Request.Context(), sub)
		if err == nil {
			c.JSON(http.StatusOK, models.SubmitResponse{
				Success:   true,
				Message:   thankYouMessage,
				RowNumber: rowNumber,
			})
			return
		}
	}

	log.Printf("Error in PostFeedback: %v", err)
	c.JSON(http.StatusOK, models.SubmitResponse{
		Success: false,
		Message: "Error: " + err.Error(),
	})
}

// Health opens the spreadsheet and reports its name and sheets.
func Health(c *gin.Context) {
	status, err := services.GetFeedbackService().Health(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, models.HealthResponse{
			Success: false,
			Message: "Backend test failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Success:     true,
		Message:     "Backend is working properly",
		Spreadsheet: status.Title,
		Sheets:      status.Sheets,
		Version:     appVersion,
	})
}

// parseSubmission normalizes either wire shape into a submission. JSON bodies
// are decoded directly; form bodies are rebuilt field by field, first value
// wins, so the formatter applies the same zero-default coercion to both.
func parseSubmission(c *gin.Context) (*models.Submission, error) {
	if strings.Contains(c.ContentType(), "application/json") {
		var sub models.Submission
		if err := json.NewDecoder(c.Request.Body).Decode(&sub); err != nil {
			return nil, err
		}
		return &sub, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}

	ratings := make(map[string]interface{}, len(models.Committees))
	for _, committee := range models.Committees {
		ratings[committee] = c.Request.PostForm.Get(committee)
	}

	return &models.Submission{
		Ratings:   ratings,
		Testimony: c.Request.PostForm.Get("testimony"),
		Timestamp: c.Request.PostForm.Get("timestamp"),
	}, nil
}
