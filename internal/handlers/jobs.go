package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/engivora/backend/internal/events"
	"github.com/engivora/backend/internal/logging"
	"github.com/engivora/backend/internal/models"
	"github.com/engivora/backend/internal/util"
)

type JobHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func publishContent(c echo.Context, p *events.Producer, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, events.TopicContentEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func (h *JobHandler) GetJob(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var job models.Job
	if err := h.DB.First(&job, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobHandler) GetJobs(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Job{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var items []models.Job
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.PageMeta(page, limit, offset, total),
	})
}

func (h *JobHandler) CreateJob(c echo.Context) error {
	var job models.Job
	if err := c.Bind(&job); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if job.Title == "" || job.Company == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and company are required")
	}

	if err := h.DB.Create(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(job.ID), map[string]any{
		"type": "job_created", "job_id": job.ID, "title": job.Title,
	})
	return c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) PatchJob(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var job models.Job
	if err := h.DB.First(&job, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}

	var req models.Job
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ID = job.ID
	req.CreatedAt = job.CreatedAt

	if err := h.DB.Save(&req).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(req.ID), map[string]any{
		"type": "job_updated", "job_id": req.ID,
	})
	return c.JSON(http.StatusOK, req)
}

func (h *JobHandler) DeleteJob(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.DB.Delete(&models.Job{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(id), map[string]any{
		"type": "job_deleted", "job_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}
