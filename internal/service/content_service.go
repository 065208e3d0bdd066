package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model/dto"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

var (
	ErrRecipeNotFound = errors.New("菜谱不存在")
	ErrLessonNotFound = errors.New("课时不存在")
)

// 未放行时的引导文案，前端原样展示
const (
	upsellRecipeHint = "订阅会员即可查看完整食材和做法"
	upsellLessonHint = "订阅会员并报名课程后即可观看本课时"
)

// ContentService 内容读路径
// 所有响应先过 EntitlementService 裁决再装配，按裁决裁掉不可见字段
type ContentService struct {
	contentRepo *repository.ContentRepository
	enrollment  *EnrollmentService
	entitlement *EntitlementService
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	enrollment *EnrollmentService,
	entitlement *EntitlementService,
) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		enrollment:  enrollment,
		entitlement: entitlement,
	}
}

// ListRecipes 菜谱列表（列表页只有元信息，无需裁决）
func (s *ContentService) ListRecipes(page, pageSize int) ([]*dto.RecipeItem, int64, error) {
	recipes, total, err := s.contentRepo.ListRecipes(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.RecipeItem, len(recipes))
	for i, r := range recipes {
		items[i] = &dto.RecipeItem{
			ID:        r.ID,
			Title:     r.Title,
			Summary:   r.Summary,
			ImageURL:  r.ImageURL,
			IsPremium: r.IsPremium,
		}
	}

	return items, total, nil
}

// GetRecipe 菜谱详情
// TEASER 时只保留标题/图片/简介，食材和做法不出库门
func (s *ContentService) GetRecipe(userID *int64, recipeID int64) (*dto.RecipeDetail, error) {
	recipe, err := s.contentRepo.GetRecipeByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	access, err := s.entitlement.ResolveRecipe(userID, recipe)
	if err != nil {
		return nil, err
	}

	detail := &dto.RecipeDetail{
		ID:        recipe.ID,
		Title:     recipe.Title,
		Summary:   recipe.Summary,
		ImageURL:  recipe.ImageURL,
		IsPremium: recipe.IsPremium,
		Access:    access,
	}

	if access == AccessFull {
		detail.Ingredients = recipe.Ingredients
		detail.Instructions = recipe.Instructions
	} else {
		detail.UpsellHint = upsellRecipeHint
	}

	return detail, nil
}

// ListCourses 课程列表
func (s *ContentService) ListCourses(page, pageSize int) ([]*dto.CourseItem, int64, error) {
	courses, total, err := s.contentRepo.ListCourses(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.CourseItem, len(courses))
	for i, course := range courses {
		items[i] = &dto.CourseItem{
			ID:        course.ID,
			Title:     course.Title,
			CoverURL:  course.CoverURL,
			IsPremium: course.IsPremium,
		}
	}

	return items, total, nil
}

// GetCourse 课程落地页
// 元信息永远可浏览，课时列表里每一条各自带访问裁决
func (s *ContentService) GetCourse(userID *int64, courseID int64) (*dto.CourseDetail, error) {
	course, err := s.contentRepo.GetCourseByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := s.contentRepo.ListLessonsByCourse(courseID)
	if err != nil {
		return nil, err
	}

	detail := &dto.CourseDetail{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		CoverURL:    course.CoverURL,
		IsPremium:   course.IsPremium,
		Lessons:     make([]*dto.LessonItem, len(lessons)),
	}

	if userID != nil {
		enrolled, err := s.enrollment.IsEnrolled(*userID, courseID)
		if err != nil {
			return nil, err
		}
		detail.Enrolled = enrolled
	}

	for i, lesson := range lessons {
		access, err := s.entitlement.ResolveLesson(userID, course, lesson)
		if err != nil {
			return nil, err
		}
		detail.Lessons[i] = &dto.LessonItem{
			ID:       lesson.ID,
			Title:    lesson.Title,
			Position: lesson.Position,
			IsFree:   lesson.IsFree,
			Access:   access,
		}
	}

	return detail, nil
}

// GetLesson 课时详情
// LOCKED 时视频地址和正文不出库门，带订阅引导文案
func (s *ContentService) GetLesson(userID *int64, courseID, lessonID int64) (*dto.LessonDetail, error) {
	lesson, err := s.contentRepo.GetLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, ErrLessonNotFound
	}

	course, err := s.contentRepo.GetCourseByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	access, err := s.entitlement.ResolveLesson(userID, course, lesson)
	if err != nil {
		return nil, err
	}

	detail := &dto.LessonDetail{
		ID:       lesson.ID,
		CourseID: lesson.CourseID,
		Title:    lesson.Title,
		Position: lesson.Position,
		IsFree:   lesson.IsFree,
		Access:   access,
	}

	if access == AccessFull {
		detail.VideoURL = lesson.VideoURL
		detail.Content = lesson.Content
	} else {
		detail.UpsellHint = upsellLessonHint
	}

	return detail, nil
}
