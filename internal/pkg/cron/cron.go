package cron

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/recipe_club_server/internal/pkg/queue"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

// Service 定时任务
// 订阅状态展示列的夜间刷新 + 回执队列积压监控
// 注意：访问判定永远以 subscription_ends_at 实时计算，这里只刷展示字段
type Service struct {
	userRepo     *repository.UserRepository
	receiptQueue *queue.Queue
	stopChan     chan struct{}
}

func NewService(userRepo *repository.UserRepository, receiptQueue *queue.Queue) *Service {
	return &Service{
		userRepo:     userRepo,
		receiptQueue: receiptQueue,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runNightlyStatusSweep()
	go s.runQueueMonitor()
	log.Println("Cron service started (status sweep + queue monitor)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runNightlyStatusSweep 每日零点（UTC）刷新过期用户的展示状态
func (s *Service) runNightlyStatusSweep() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.sweepExpiredStatus()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) sweepExpiredStatus() {
	log.Println("Starting subscription status sweep...")
	affected, err := s.RunNow()
	if err != nil {
		log.Printf("Status sweep failed: %v", err)
		return
	}
	log.Printf("Status sweep completed, %d users marked inactive", affected)
}

// RunNow 立即执行一次展示状态刷新（手动触发用）
func (s *Service) RunNow() (int64, error) {
	return s.userRepo.SweepExpiredStatus(time.Now())
}

// runQueueMonitor 每小时检查一次回执队列积压
func (s *Service) runQueueMonitor() {
	if s.receiptQueue == nil {
		return
	}

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			length, err := s.receiptQueue.Length(context.Background())
			if err != nil {
				log.Printf("Queue monitor: failed to get length: %v", err)
				continue
			}
			if length > 100 {
				log.Printf("Queue monitor: receipt queue backlog is %d, check worker health", length)
			}
		}
	}
}
