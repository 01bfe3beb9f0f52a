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

type ExamHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *ExamHandler) GetExam(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var exam models.Exam
	if err := h.DB.First(&exam, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "exam not found")
	}
	return c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) GetExams(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Exam{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var items []models.Exam
	if err := h.DB.Order("date ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.PageMeta(page, limit, offset, total),
	})
}

func (h *ExamHandler) CreateExam(c echo.Context) error {
	var exam models.Exam
	if err := c.Bind(&exam); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if exam.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	if err := h.DB.Create(&exam).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(exam.ID), map[string]any{
		"type": "exam_created", "exam_id": exam.ID, "name": exam.Name,
	})
	return c.JSON(http.StatusCreated, exam)
}

func (h *ExamHandler) PatchExam(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var exam models.Exam
	if err := h.DB.First(&exam, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "exam not found")
	}

	var req models.Exam
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ID = exam.ID
	req.CreatedAt = exam.CreatedAt

	if err := h.DB.Save(&req).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(req.ID), map[string]any{
		"type": "exam_updated", "exam_id": req.ID,
	})
	return c.JSON(http.StatusOK, req)
}

func (h *ExamHandler) DeleteExam(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.DB.Delete(&models.Exam{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(id), map[string]any{
		"type": "exam_deleted", "exam_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}
