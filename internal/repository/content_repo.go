package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
)

// ContentRepository 内容只读仓储
// 菜谱/课程/课时由编辑后台写入，本服务不提供任何写路径
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) GetRecipeByID(id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.Where("id = ?", id).First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *ContentRepository) ListRecipes(page, pageSize int) ([]*model.Recipe, int64, error) {
	var recipes []*model.Recipe
	var total int64

	if err := r.db.Model(&model.Recipe{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&recipes).Error
	return recipes, total, err
}

func (r *ContentRepository) GetCourseByID(id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *ContentRepository) ListCourses(page, pageSize int) ([]*model.Course, int64, error) {
	var courses []*model.Course
	var total int64

	if err := r.db.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&courses).Error
	return courses, total, err
}

func (r *ContentRepository) GetLessonByID(id int64) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.db.Where("id = ?", id).First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *ContentRepository) ListLessonsByCourse(courseID int64) ([]*model.Lesson, error) {
	var lessons []*model.Lesson
	err := r.db.Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}
