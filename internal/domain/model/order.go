package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// OrderNumberは全ユーザー横断のグローバル連番。
// ユーザーごとのtotal_ordersとは別の採番空間なので混ぜないこと。
type Order struct {
	ID             int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64       `gorm:"not null;index" json:"user_id"`
	OrderNumber    int64       `gorm:"not null;uniqueIndex" json:"order_number"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount    int64       `gorm:"not null" json:"total_amount"`
	DiscountAmount int64       `gorm:"not null;default:0" json:"discount_amount"`
	DiscountCode   *string     `gorm:"type:varchar(255)" json:"discount_code,omitempty"`
	FinalAmount    int64       `gorm:"not null" json:"final_amount"`
	CreatedAt      time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
