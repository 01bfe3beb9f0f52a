package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/engivora/backend/internal/handlers"
	mwauth "github.com/engivora/backend/internal/middleware/auth"
	"github.com/engivora/backend/internal/middleware/ratelimit"
	"github.com/engivora/backend/internal/service"
)

// PublicPaths is the static classification list the route guard
// consults; a trailing '*' matches by prefix.
var PublicPaths = []string{
	"/health/live",
	"/health/ready",
	"/api/students/signup",
	"/api/students/login",
	"/api/auth/login",
	"/api/admin/auth/login",
	"/api/jobs*",
	"/api/blogs*",
	"/api/exams*",
	"/api/discounts*",
	"/api/events*",
	"/api/notifications*",
	"/api/search",
	"/admin/login",
}

type Deps struct {
	DB                  *gorm.DB
	Guard               *mwauth.Guard
	LoginLimiter        *ratelimit.TokenBucket
	AuthHandler         *handlers.AuthHandler
	JobHandler          *handlers.JobHandler
	BlogHandler         *handlers.BlogHandler
	ExamHandler         *handlers.ExamHandler
	DiscountHandler     *handlers.DiscountHandler
	EventHandler        *handlers.EventHandler
	NotificationHandler *handlers.NotificationHandler
	SearchHandler       *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(d.Guard.Middleware())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	students := api.Group("/students")
	students.POST("/signup", d.AuthHandler.Signup, d.LoginLimiter.Middleware())
	students.POST("/login", d.AuthHandler.Login, d.LoginLimiter.Middleware())

	api.POST("/auth/login", d.AuthHandler.AuthLogin, d.LoginLimiter.Middleware())

	adminAuth := api.Group("/admin/auth")
	adminAuth.POST("/login", d.AuthHandler.AdminLogin, d.LoginLimiter.Middleware())
	adminAuth.POST("/verify", d.AuthHandler.AdminVerify)

	api.GET("/jobs", d.JobHandler.GetJobs)
	api.GET("/jobs/:id", d.JobHandler.GetJob)
	api.GET("/blogs", d.BlogHandler.GetBlogs)
	api.GET("/blogs/:id", d.BlogHandler.GetBlog)
	api.POST("/blogs/drafts", d.BlogHandler.SubmitDraft)
	api.GET("/exams", d.ExamHandler.GetExams)
	api.GET("/exams/:id", d.ExamHandler.GetExam)
	api.GET("/discounts", d.DiscountHandler.GetDiscounts)
	api.GET("/discounts/:id", d.DiscountHandler.GetDiscount)
	api.GET("/events", d.EventHandler.GetEvents)
	api.GET("/events/:id", d.EventHandler.GetEvent)
	api.GET("/notifications", d.NotificationHandler.GetNotifications)
	api.GET("/search", d.SearchHandler.Search)

	admin := api.Group("/admin", d.Guard.RequireAdmin())

	admin.POST("/jobs", d.JobHandler.CreateJob)
	admin.PATCH("/jobs/:id", d.JobHandler.PatchJob)
	admin.DELETE("/jobs/:id", d.JobHandler.DeleteJob)
	admin.POST("/blogs", d.BlogHandler.CreateBlog)
	admin.PATCH("/blogs/:id", d.BlogHandler.PatchBlog)
	admin.DELETE("/blogs/:id", d.BlogHandler.DeleteBlog)
	admin.POST("/blogs/sync", d.BlogHandler.SyncDrafts)
	admin.POST("/exams", d.ExamHandler.CreateExam)
	admin.PATCH("/exams/:id", d.ExamHandler.PatchExam)
	admin.DELETE("/exams/:id", d.ExamHandler.DeleteExam)
	admin.POST("/discounts", d.DiscountHandler.CreateDiscount)
	admin.PATCH("/discounts/:id", d.DiscountHandler.PatchDiscount)
	admin.DELETE("/discounts/:id", d.DiscountHandler.DeleteDiscount)
	admin.POST("/events", d.EventHandler.CreateEvent)
	admin.PATCH("/events/:id", d.EventHandler.PatchEvent)
	admin.DELETE("/events/:id", d.EventHandler.DeleteEvent)
	admin.POST("/notifications", d.NotificationHandler.CreateNotification)
	admin.DELETE("/notifications/:id", d.NotificationHandler.DeleteNotification)

	// page routes; the guard redirects unauthenticated /admin/** here
	e.GET("/admin/login", func(c echo.Context) error {
		return c.HTML(http.StatusOK, "<html><body><h1>Engivora admin login</h1></body></html>")
	})
	e.GET("/admin", func(c echo.Context) error {
		return c.HTML(http.StatusOK, "<html><body><h1>Engivora admin</h1></body></html>")
	}, d.Guard.RequireAdmin())
}

// ErrorHandler renders every error as the structured JSON body the
// clients expect; validation errors carry a per-field map.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var msg any = "internal error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = he.Message
	}

	if fields, ok := msg.(service.FieldErrors); ok {
		_ = c.JSON(code, echo.Map{
			"success": false, "error": "validation failed", "fields": fields,
		})
		return
	}
	_ = c.JSON(code, echo.Map{"success": false, "error": fmt.Sprint(msg)})
}
