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

type NotificationHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var items []models.Notification
	if err := h.DB.Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.PageMeta(page, limit, offset, total),
	})
}

func (h *NotificationHandler) CreateNotification(c echo.Context) error {
	var n models.Notification
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if n.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if n.Audience == "" {
		n.Audience = "all"
	}

	if err := h.DB.Create(&n).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(n.ID), map[string]any{
		"type": "notification_created", "notification_id": n.ID, "audience": n.Audience,
	})
	return c.JSON(http.StatusCreated, n)
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.DB.Delete(&models.Notification{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(id), map[string]any{
		"type": "notification_deleted", "notification_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}
