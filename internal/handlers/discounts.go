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

type DiscountHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *DiscountHandler) GetDiscount(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var discount models.Discount
	if err := h.DB.First(&discount, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "discount not found")
	}
	return c.JSON(http.StatusOK, discount)
}

func (h *DiscountHandler) GetDiscounts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Discount{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var items []models.Discount
	if err := h.DB.Order("expires_at ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.PageMeta(page, limit, offset, total),
	})
}

func (h *DiscountHandler) CreateDiscount(c echo.Context) error {
	var discount models.Discount
	if err := c.Bind(&discount); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if discount.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	if err := h.DB.Create(&discount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(discount.ID), map[string]any{
		"type": "discount_created", "discount_id": discount.ID,
	})
	return c.JSON(http.StatusCreated, discount)
}

func (h *DiscountHandler) PatchDiscount(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var discount models.Discount
	if err := h.DB.First(&discount, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "discount not found")
	}

	var req models.Discount
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ID = discount.ID
	req.CreatedAt = discount.CreatedAt

	if err := h.DB.Save(&req).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(req.ID), map[string]any{
		"type": "discount_updated", "discount_id": req.ID,
	})
	return c.JSON(http.StatusOK, req)
}

func (h *DiscountHandler) DeleteDiscount(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.DB.Delete(&models.Discount{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(id), map[string]any{
		"type": "discount_deleted", "discount_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}
