package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_club_server/internal/api/middleware"
	"github.com/qs3c/recipe_club_server/internal/model/dto"
	"github.com/qs3c/recipe_club_server/internal/pkg/response"
	"github.com/qs3c/recipe_club_server/internal/service"
)

type CourseHandler struct {
	contentService    *service.ContentService
	enrollmentService *service.EnrollmentService
}

func NewCourseHandler(
	contentService *service.ContentService,
	enrollmentService *service.EnrollmentService,
) *CourseHandler {
	return &CourseHandler{
		contentService:    contentService,
		enrollmentService: enrollmentService,
	}
}

// List 课程列表
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.contentService.ListCourses(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 课程详情，带课时列表和各课时的访问级别
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的课程ID")
		return
	}

	userID := middleware.GetOptionalUserID(c)

	detail, err := h.contentService.GetCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, detail)
}

// GetLesson 课时详情
// GET /api/v1/courses/:id/lessons/:lesson_id
func (h *CourseHandler) GetLesson(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的课程ID")
		return
	}
	lessonID, err := strconv.ParseInt(c.Param("lesson_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的课时ID")
		return
	}

	userID := middleware.GetOptionalUserID(c)

	detail, err := h.contentService.GetLesson(userID, courseID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrLessonNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, detail)
}

// Enroll 报名课程
// POST /api/v1/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的课程ID")
		return
	}

	enrollment, err := h.enrollmentService.Enroll(userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrSubscriptionRequired):
			response.SubscriptionError(c, "开通会员后即可报名该课程")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "报名成功", &dto.EnrollResponse{
		CourseID:  enrollment.CourseID,
		Enrolled:  true,
		CreatedAt: enrollment.CreatedAt.Format(time.RFC3339),
	})
}
