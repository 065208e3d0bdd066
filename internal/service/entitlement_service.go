package service

import (
	"github.com/qs3c/recipe_club_server/internal/model"
)

// 访问裁决，三种取值
// TEASER / LOCKED 不是错误，是调用方必须正常渲染的结果
const (
	AccessFull   = "FULL"
	AccessTeaser = "TEASER"
	AccessLocked = "LOCKED"
)

// EntitlementService 整个系统唯一的内容放行判定点
// 每次请求都重新读取当前订阅状态，不缓存任何授权结果——
// 订阅一过期，下一次读取立刻降级，不需要任何"取消权限"动作
type EntitlementService struct {
	subscription *SubscriptionService
	enrollment   *EnrollmentService
}

func NewEntitlementService(
	subscription *SubscriptionService,
	enrollment *EnrollmentService,
) *EntitlementService {
	return &EntitlementService{
		subscription: subscription,
		enrollment:   enrollment,
	}
}

// ResolveRecipe 菜谱裁决
// 免费菜谱放行；会员菜谱看当前订阅，未订阅给预览（标题图片可见，做法隐藏）
func (s *EntitlementService) ResolveRecipe(userID *int64, recipe *model.Recipe) (string, error) {
	if !recipe.IsPremium {
		return AccessFull, nil
	}
	if userID == nil {
		return AccessTeaser, nil
	}

	active, err := s.subscription.IsActive(*userID)
	if err != nil {
		return "", err
	}
	if active {
		return AccessFull, nil
	}
	return AccessTeaser, nil
}

// ResolveCourse 课程落地页永远可浏览，付费限制只落在课时层面
func (s *EntitlementService) ResolveCourse(userID *int64, course *model.Course) (string, error) {
	return AccessFull, nil
}

// ResolveLesson 课时裁决
// 试看课时无条件放行；其余课时要求已报名，会员课程还要求订阅在有效期内
// 任一条件不满足即 LOCKED（视频和正文隐藏，前端展示订阅引导）
func (s *EntitlementService) ResolveLesson(userID *int64, course *model.Course, lesson *model.Lesson) (string, error) {
	if lesson.IsFree {
		return AccessFull, nil
	}
	if userID == nil {
		return AccessLocked, nil
	}

	enrolled, err := s.enrollment.IsEnrolled(*userID, course.ID)
	if err != nil {
		return "", err
	}
	if !enrolled {
		return AccessLocked, nil
	}

	if course.IsPremium {
		active, err := s.subscription.IsActive(*userID)
		if err != nil {
			return "", err
		}
		if !active {
			return AccessLocked, nil
		}
	}

	return AccessFull, nil
}
