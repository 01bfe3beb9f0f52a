package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/engivora/backend/internal/events"
	"github.com/engivora/backend/internal/logging"
	"github.com/engivora/backend/internal/models"
	"github.com/engivora/backend/internal/util"
)

type BlogHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *BlogHandler) GetBlog(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var post models.BlogPost
	if err := h.DB.First(&post, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "blog post not found")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *BlogHandler) GetBlogs(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.BlogPost{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var items []models.BlogPost
	if err := h.DB.Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.PageMeta(page, limit, offset, total),
	})
}

func (h *BlogHandler) CreateBlog(c echo.Context) error {
	var post models.BlogPost
	if err := c.Bind(&post); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if post.Title == "" || post.Author == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and author are required")
	}

	if err := h.DB.Create(&post).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(post.ID), map[string]any{
		"type": "blog_created", "blog_id": post.ID, "title": post.Title,
	})
	return c.JSON(http.StatusCreated, post)
}

func (h *BlogHandler) PatchBlog(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var post models.BlogPost
	if err := h.DB.First(&post, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "blog post not found")
	}

	var req models.BlogPost
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ID = post.ID
	req.CreatedAt = post.CreatedAt

	if err := h.DB.Save(&req).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(req.ID), map[string]any{
		"type": "blog_updated", "blog_id": req.ID,
	})
	return c.JSON(http.StatusOK, req)
}

func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.DB.Delete(&models.BlogPost{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publishContent(c, h.Producer, fmt.Sprint(id), map[string]any{
		"type": "blog_deleted", "blog_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}

// SubmitDraft queues a post for review; drafts become published posts
// through SyncDrafts.
func (h *BlogHandler) SubmitDraft(c echo.Context) error {
	var draft models.BlogDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if draft.Title == "" || draft.Author == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and author are required")
	}
	draft.Synced = false

	if err := h.DB.Create(&draft).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, draft)
}

// SyncDrafts reconciles the draft table into published posts. Each
// unsynced draft becomes one post; the draft is kept and flagged so a
// rerun is idempotent.
func (h *BlogHandler) SyncDrafts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blogs_sync")

	var drafts []models.BlogDraft
	if err := h.DB.Where("synced = ?", false).Find(&drafts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	synced := 0
	for _, d := range drafts {
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			post := models.BlogPost{
				Title:   d.Title,
				Author:  d.Author,
				Content: d.Content,
				Tags:    d.Tags,
			}
			if err := tx.Create(&post).Error; err != nil {
				return err
			}
			return tx.Model(&models.BlogDraft{}).
				Where("id = ?", d.ID).
				Update("synced", true).Error
		})
		if err != nil {
			l.Error("sync_draft_failed", "draft_id", d.ID, "error", err)
			continue
		}
		synced++
	}

	l.Info("blogs_synced", "pending", len(drafts), "synced", synced)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "pending": len(drafts), "synced": synced,
	})
}
