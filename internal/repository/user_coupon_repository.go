package repository

import (
	"errors"
	"time"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserCouponRepository 用户优惠券台账数据访问接口
type UserCouponRepository interface {
	Get(couponID, userID uint) (*models.UserCoupon, error)
	CountByUser(couponID, userID uint) (int, error)
	IncrementUsage(couponID, userID uint, perUserLimit int, now time.Time) (bool, error)
	ListByUser(userID uint) ([]models.UserCoupon, error)
	WithTx(tx *gorm.DB) *GormUserCouponRepository
}

// GormUserCouponRepository GORM 实现
type GormUserCouponRepository struct {
	db *gorm.DB
}

// NewUserCouponRepository 创建用户优惠券台账仓库
func NewUserCouponRepository(db *gorm.DB) *GormUserCouponRepository {
	return &GormUserCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserCouponRepository) WithTx(tx *gorm.DB) *GormUserCouponRepository {
	if tx == nil {
		return r
	}
	return &GormUserCouponRepository{db: tx}
}

// Get 获取台账记录
func (r *GormUserCouponRepository) Get(couponID, userID uint) (*models.UserCoupon, error) {
	var record models.UserCoupon
	if err := r.db.Where("coupon_id = ? AND user_id = ?", couponID, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// CountByUser 获取用户对某优惠券的已使用次数
func (r *GormUserCouponRepository) CountByUser(couponID, userID uint) (int, error) {
	record, err := r.Get(couponID, userID)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, nil
	}
	return record.UsedCount, nil
}

// IncrementUsage 条件累加使用次数；命中个人上限时返回 false 且不产生写入。
// 先按唯一索引补占位行，再以 used_count 为条件自增，两步均为原子语句。
func (r *GormUserCouponRepository) IncrementUsage(couponID, userID uint, perUserLimit int, now time.Time) (bool, error) {
	record := models.UserCoupon{
		CouponID: couponID,
		UserID:   userID,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coupon_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return false, err
	}

	query := r.db.Model(&models.UserCoupon{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID)
	if perUserLimit > 0 {
		query = query.Where("used_count < ?", perUserLimit)
	}
	result := query.UpdateColumns(map[string]interface{}{
		"used_count":   gorm.Expr("used_count + 1"),
		"last_used_at": now,
		"updated_at":   now,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUser 获取用户全部台账
func (r *GormUserCouponRepository) ListByUser(userID uint) ([]models.UserCoupon, error) {
	var records []models.UserCoupon
	if err := r.db.Where("user_id = ?", userID).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
