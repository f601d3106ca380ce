package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
	"github.com/havenspace/backend/internal/moderation"
	"github.com/havenspace/backend/internal/repository"
)

// Burst limit for report filing, enforced against the shared Redis
// token bucket. The daily cap in ReportService is the abuse boundary;
// this only smooths bursts.
const (
	reportBurstRate  = 1
	reportBurstSize  = 3
	reportActionName = "report"
)

// ActionLimiter is the Redis-backed token bucket, satisfied by
// cache.RedisClient.
type ActionLimiter interface {
	AllowAction(userID uuid.UUID, action string, rate int, burst int) (bool, error)
}

type ReportHandler struct {
	reports    *moderation.ReportService
	reportRepo *repository.ReportRepository
	limiter    ActionLimiter
}

func NewReportHandler(reports *moderation.ReportService, reportRepo *repository.ReportRepository, limiter ActionLimiter) *ReportHandler {
	return &ReportHandler{
		reports:    reports,
		reportRepo: reportRepo,
		limiter:    limiter,
	}
}

// CreateReport files a report against a piece of content
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	// Burst limit: try Redis first. When Redis is down the per-request
	// x/time/rate middleware and the daily cap still hold.
	if h.limiter != nil {
		allowed, err := h.limiter.AllowAction(uid, reportActionName, reportBurstRate, reportBurstSize)
		if err != nil {
			log.Printf("report burst limiter unavailable: %v", err)
		} else if !allowed {
			ErrorResponse(c, http.StatusTooManyRequests, "You are filing reports too quickly. Please slow down.")
			return
		}
	}

	report, err := h.reports.File(uid, req)
	if err != nil {
		ModerationErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ListReports returns the moderator report queue
func (h *ReportHandler) ListReports(c *gin.Context) {
	status := c.DefaultQuery("status", models.ReportPending)

	reports, err := h.reportRepo.ListByStatus(status, 50)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	c.JSON(http.StatusOK, reports)
}

// UpdateReport moves a report through triage
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid report ID")
		return
	}

	var req models.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	report, err := h.reports.Triage(reportID, uid, req.Status)
	if err != nil {
		ModerationErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
