package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newRepoTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.UserCoupon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestIncrementUsageCreatesLedgerRow(t *testing.T) {
	db := newRepoTestDB(t, "user_coupon_first_use")
	repo := NewUserCouponRepository(db)

	ok, err := repo.IncrementUsage(1, 7, 1, time.Now())
	if err != nil {
		t.Fatalf("increment usage failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected first use to pass")
	}

	var record models.UserCoupon
	if err := db.Where("coupon_id = ? AND user_id = ?", 1, 7).First(&record).Error; err != nil {
		t.Fatalf("load ledger failed: %v", err)
	}
	if record.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", record.UsedCount)
	}
	if record.LastUsedAt.IsZero() {
		t.Fatalf("expected last used at recorded")
	}
}

func TestIncrementUsageStopsAtLimit(t *testing.T) {
	db := newRepoTestDB(t, "user_coupon_at_limit")
	repo := NewUserCouponRepository(db)
	if err := db.Create(&models.UserCoupon{CouponID: 1, UserID: 7, UsedCount: 2}).Error; err != nil {
		t.Fatalf("seed ledger failed: %v", err)
	}

	ok, err := repo.IncrementUsage(1, 7, 2, time.Now())
	if err != nil {
		t.Fatalf("increment usage failed: %v", err)
	}
	if ok {
		t.Fatalf("expected increment to be rejected at limit")
	}

	var record models.UserCoupon
	if err := db.Where("coupon_id = ? AND user_id = ?", 1, 7).First(&record).Error; err != nil {
		t.Fatalf("load ledger failed: %v", err)
	}
	if record.UsedCount != 2 {
		t.Fatalf("expected used count unchanged, got %d", record.UsedCount)
	}
}

func TestIncrementUsageUnlimited(t *testing.T) {
	db := newRepoTestDB(t, "user_coupon_unlimited")
	repo := NewUserCouponRepository(db)

	for i := 0; i < 3; i++ {
		ok, err := repo.IncrementUsage(1, 7, 0, time.Now())
		if err != nil {
			t.Fatalf("increment usage failed: %v", err)
		}
		if !ok {
			t.Fatalf("expected unlimited coupon to pass on use %d", i+1)
		}
	}

	var record models.UserCoupon
	if err := db.Where("coupon_id = ? AND user_id = ?", 1, 7).First(&record).Error; err != nil {
		t.Fatalf("load ledger failed: %v", err)
	}
	if record.UsedCount != 3 {
		t.Fatalf("expected used count 3, got %d", record.UsedCount)
	}
}
