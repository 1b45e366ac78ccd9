package main

import (
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("初始化默认管理员失败: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "electronics", Name: "Electronics", Description: "手机、电脑与数码设备", IsActive: true, SortOrder: 30},
		{Slug: "fashion", Name: "Fashion", Description: "服饰与配饰", IsActive: true, SortOrder: 20},
		{Slug: "home", Name: "Home & Living", Description: "家居与生活用品", IsActive: true, SortOrder: 10},
	}
	categoryIDs := map[string]uint{}
	for i := range categories {
		cat := &categories[i]
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			categoryIDs[cat.Slug] = existing.ID
			stdLog.Printf("分类已存在: %s", cat.Slug)
			continue
		}
		if err := models.DB.Create(cat).Error; err != nil {
			stdLog.Printf("创建分类 %s 失败: %v", cat.Slug, err)
			continue
		}
		categoryIDs[cat.Slug] = cat.ID
		stdLog.Printf("创建分类: %s", cat.Slug)
	}

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  categoryIDs["electronics"],
			Slug:        "wireless-earbuds",
			Name:        "Wireless Earbuds",
			Description: "真无线蓝牙耳机，续航 24 小时",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(2999.00)),
			Stock:       100,
			IsActive:    true,
			Tags:        models.StringArray{"audio", "bluetooth"},
		},
		{
			CategoryID:  categoryIDs["electronics"],
			Slug:        "smart-watch",
			Name:        "Smart Watch",
			Description: "支持心率与睡眠监测",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(5499.00)),
			Stock:       50,
			IsActive:    true,
			Tags:        models.StringArray{"wearable"},
		},
		{
			CategoryID:  categoryIDs["home"],
			Slug:        "ceramic-mug-set",
			Name:        "Ceramic Mug Set",
			Description: "四只装陶瓷马克杯",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(899.00)),
			Stock:       200,
			IsActive:    true,
		},
	}
	for i := range products {
		p := &products[i]
		var existing models.Product
		if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("商品已存在: %s", p.Slug)
			continue
		}
		if err := models.DB.Create(p).Error; err != nil {
			stdLog.Printf("创建商品 %s 失败: %v", p.Slug, err)
			continue
		}
		stdLog.Printf("创建商品: %s", p.Slug)
	}

	// 添加优惠券
	until := time.Now().AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			Code:         "WELCOME10",
			Type:         constants.CouponTypePercentage,
			Value:        models.NewMoneyFromInt(10),
			MaxDiscount:  models.NewMoneyFromInt(500),
			PerUserLimit: 1,
			ValidUntil:   &until,
			Status:       constants.CouponStatusActive,
		},
		{
			Code:           "SAVE200",
			Type:           constants.CouponTypeFixedAmount,
			Value:          models.NewMoneyFromInt(200),
			MinOrderAmount: models.NewMoneyFromInt(2000),
			UsageLimit:     500,
			ValidUntil:     &until,
			Status:         constants.CouponStatusActive,
		},
		{
			Code:       "FREESHIP",
			Type:       constants.CouponTypeFreeShipping,
			UsageLimit: 1000,
			ValidUntil: &until,
			Status:     constants.CouponStatusActive,
		},
	}
	for i := range coupons {
		cp := &coupons[i]
		var existing models.Coupon
		if err := models.DB.Where("code = ?", cp.Code).First(&existing).Error; err == nil {
			stdLog.Printf("优惠券已存在: %s", cp.Code)
			continue
		}
		if err := models.DB.Create(cp).Error; err != nil {
			stdLog.Printf("创建优惠券 %s 失败: %v", cp.Code, err)
			continue
		}
		stdLog.Printf("创建优惠券: %s", cp.Code)
	}

	stdLog.Printf("数据初始化完成")
}
