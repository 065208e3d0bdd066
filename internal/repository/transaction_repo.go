package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(txn *model.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *TransactionRepository) GetByID(id int64) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.Where("id = ?", id).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// FinalizeIfPending 按状态做 CAS：只有仍处于 PENDING 的记录才会被改写
// RowsAffected 为 0 说明别的调用已先一步离开 PENDING，由调用方重读判定
func (r *TransactionRepository) FinalizeIfPending(id int64, status string, finalizedAt time.Time) (bool, error) {
	result := r.db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"finalized_at": finalizedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TransactionRepository) ListByUser(userID int64) ([]*model.Transaction, error) {
	var txns []*model.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
