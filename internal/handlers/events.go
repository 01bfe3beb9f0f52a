package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/engivora/backend/internal/events"
	"github.com/engivora/backend/internal/models"
	"github.com/engivora/backend/internal/util"
)

type EventHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetEvents(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Event{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var items []models.Event
	if err := h.DB.Order("starts_at ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.PageMeta(page, limit, offset, total),
	})
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var event models.Event
	if err := c.Bind(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if event.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	if err := h.DB.Create(&event).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(event.ID), map[string]any{
		"type": "event_created", "event_id": event.ID, "title": event.Title,
	})
	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) PatchEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	var req models.Event
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ID = event.ID
	req.CreatedAt = event.CreatedAt

	if err := h.DB.Save(&req).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(req.ID), map[string]any{
		"type": "event_updated", "event_id": req.ID,
	})
	return c.JSON(http.StatusOK, req)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.DB.Delete(&models.Event{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(id), map[string]any{
		"type": "event_deleted", "event_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}
