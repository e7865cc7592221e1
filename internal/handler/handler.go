package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/guestbook"
	"classtrack/internal/school"
)

// Handler exposes the REST API over the domain services.
type Handler struct {
	auth   *auth.Service
	items  guestbook.Repository
	school school.Repository
	att    *attendance.Service
}

func New(authSvc *auth.Service, items guestbook.Repository, schoolRepo school.Repository, att *attendance.Service) *Handler {
	return &Handler{auth: authSvc, items: items, school: schoolRepo, att: att}
}

// Routes registers the /api surface. secret and issuer feed the auth
// middleware; loginLimiter, when non-nil, throttles the login endpoint.
func (h *Handler) Routes(r *gin.Engine, secret, issuer string, loginLimiter gin.HandlerFunc) {
	api := r.Group("/api")

	// Guestbook predates the auth layer and stays open.
	api.GET("/items", h.ListItems)
	api.POST("/items", h.CreateItem)

	authGroup := api.Group("/auth")
	if loginLimiter != nil {
		authGroup.POST("/login", loginLimiter, h.Login)
	} else {
		authGroup.POST("/login", h.Login)
	}

	protected := api.Group("", auth.RequireAuth(secret, issuer))
	{
		protected.POST("/auth/register", auth.RequireRoles(auth.RoleAdmin), h.RegisterUser)

		protected.GET("/students", h.ListStudents)
		protected.POST("/students", auth.RequireRoles(auth.RoleAdmin, auth.RoleTeacher), h.CreateStudent)

		protected.GET("/courses", h.ListCourses)
		protected.POST("/courses", auth.RequireRoles(auth.RoleAdmin, auth.RoleTeacher), h.CreateCourse)

		staff := auth.RequireRoles(auth.RoleAdmin, auth.RoleTeacher)
		protected.POST("/attendance", staff, h.RecordAttendance)
		protected.GET("/attendance", staff, h.ListAttendance)
		protected.GET("/attendance/self", auth.RequireRoles(auth.RoleStudent), h.MyAttendance)
	}
}

// serverError hides internals from the client and keeps the detail in the log.
func serverError(c *gin.Context, err error) {
	log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// ---------- Guestbook ----------

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	if items == nil {
		items = []guestbook.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text, err := guestbook.CleanText(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.items.Create(c.Request.Context(), text)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ---------- Auth ----------

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, exp, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp.Unix()})
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req auth.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	usr, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) || errors.Is(err, auth.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usr)
}

// ---------- School ----------

// ListStudents returns the whole roster for staff. A student-role caller only
// sees their own linked record.
func (h *Handler) ListStudents(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	if ident.Role == auth.RoleStudent {
		if ident.StudentID == 0 {
			c.JSON(http.StatusOK, []school.Student{})
			return
		}
		st, err := h.school.GetStudent(c.Request.Context(), ident.StudentID)
		if err != nil {
			if errors.Is(err, school.ErrNotFound) {
				c.JSON(http.StatusOK, []school.Student{})
				return
			}
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, []school.Student{st})
		return
	}

	students, err := h.school.ListStudents(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	if students == nil {
		students = []school.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.school.CreateStudent(c.Request.Context(), req.Name)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.school.ListCourses(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	if courses == nil {
		courses = []school.Course{}
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	co, err := h.school.CreateCourse(c.Request.Context(), req.Name)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, co)
}

// ---------- Attendance ----------

func (h *Handler) RecordAttendance(c *gin.Context) {
	var req struct {
		CourseID int                `json:"course_id"`
		Date     string             `json:"date"`
		Records  []attendance.Entry `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.att.RecordBatch(c.Request.Context(), req.CourseID, req.Date, req.Records); err != nil {
		if errors.Is(err, attendance.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": len(req.Records)})
}

func (h *Handler) ListAttendance(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Query("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id required"})
		return
	}
	records, err := h.att.ListByCourse(c.Request.Context(), courseID, c.Query("date"))
	if err != nil {
		if errors.Is(err, attendance.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		serverError(c, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) MyAttendance(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	records, err := h.att.ListByStudent(c.Request.Context(), ident.StudentID)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		serverError(c, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, records)
}
