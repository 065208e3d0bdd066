package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

var (
	ErrCourseNotFound       = errors.New("课程不存在")
	ErrSubscriptionRequired = errors.New("报名会员课程需要有效订阅")
)

type EnrollmentService struct {
	enrollmentRepo *repository.EnrollmentRepository
	contentRepo    *repository.ContentRepository
	subscription   *SubscriptionService
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	contentRepo *repository.ContentRepository,
	subscription *SubscriptionService,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		contentRepo:    contentRepo,
		subscription:   subscription,
	}
}

// Enroll 报名课程
// 重复报名幂等返回已有记录；会员课程只在报名这一刻校验订阅——
// 报名记录是写一次的历史事实，之后能否看课由 EntitlementService 每次实时判定
func (s *EnrollmentService) Enroll(userID, courseID int64) (*model.Enrollment, error) {
	course, err := s.contentRepo.GetCourseByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	existing, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if course.IsPremium {
		active, err := s.subscription.IsActive(userID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrSubscriptionRequired
		}
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		// 并发的重复点击撞了 (user, course) 唯一索引，读回已有记录即可
		if existing, getErr := s.enrollmentRepo.GetByUserAndCourse(userID, courseID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	return enrollment, nil
}

// IsEnrolled 是否已报名
func (s *EnrollmentService) IsEnrolled(userID, courseID int64) (bool, error) {
	return s.enrollmentRepo.Exists(userID, courseID)
}
