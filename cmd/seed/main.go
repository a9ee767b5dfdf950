package main

import (
	"fmt"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/infra/db"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 開発用の初期データ投入。何度実行しても増殖しない。
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.DiscountCode{},
		&model.OrderSequence{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	if err := seedUsers(gormDB); err != nil {
		logger.Fatal("seed users failed", zap.Error(err))
	}
	if err := seedProducts(gormDB); err != nil {
		logger.Fatal("seed products failed", zap.Error(err))
	}

	logger.Info("seed done")
}

func seedUsers(gormDB *gorm.DB) error {
	users := []struct {
		name     string
		email    string
		password string
		role     model.Role
	}{
		{"Admin", "admin@example.com", "admin12345", model.RoleAdmin},
		{"Taro", "taro@example.com", "password1", model.RoleUser},
		{"Hanako", "hanako@example.com", "password1", model.RoleUser},
	}

	for _, u := range users {
		var count int64
		if err := gormDB.Model(&model.User{}).Where("email = ?", u.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), 12)
		if err != nil {
			return fmt.Errorf("hash %s: %w", u.email, err)
		}

		if err := gormDB.Create(&model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			IsActive:     true,
		}).Error; err != nil {
			return err
		}
	}

	return nil
}

func seedProducts(gormDB *gorm.DB) error {
	products := []model.Product{
		{Name: "Drip Coffee Beans 200g", Description: "Medium roast blend", Price: 1200, Stock: 50, IsActive: true},
		{Name: "Ceramic Mug", Description: "300ml, white", Price: 1800, Stock: 30, IsActive: true},
		{Name: "Hand Grinder", Description: "Steel burr", Price: 4500, Stock: 10, IsActive: true},
		{Name: "Paper Filters (100)", Description: "Size 02", Price: 400, Stock: 100, IsActive: true},
		{Name: "Limited Tumbler", Description: "Not on sale yet", Price: 3200, Stock: 20, IsActive: false},
	}

	for _, p := range products {
		var count int64
		if err := gormDB.Model(&model.Product{}).Where("name = ?", p.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := gormDB.Create(&p).Error; err != nil {
			return err
		}
	}

	return nil
}
