package model

import "time"

// 管理者操作の種類。
type AuditAction string

const (
	//商品を作成・更新・削除した操作。
	AuditActionCreateProduct AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct AuditAction = "DELETE_PRODUCT"

	//割引コードを手動発行した操作。
	AuditActionCreateDiscount AuditAction = "CREATE_DISCOUNT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceDiscount AuditResourceType = "discount"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」したかを残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	Detail       string            `gorm:"type:text" json:"detail"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
