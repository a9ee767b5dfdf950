package model

import "time"

type GenerationType string

const (
	//チェックアウトエンジンが自動発行したコード。
	GenerationTypeAuto GenerationType = "AUTO"

	//管理者が手動発行したコード。
	GenerationTypeManual GenerationType = "MANUAL"
)

// 割引コード。
// IsUsedはfalse→trueに一度だけ遷移し、UsedAtはその時に同時に入る。
// GeneratedForOrderNumberは「ユーザー個人の何回目の注文向けか」（グローバル注文番号ではない）。
type DiscountCode struct {
	ID                      int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Code                    string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"code"`
	DiscountPercentage      int64          `gorm:"not null" json:"discount_percentage"`
	IsUsed                  bool           `gorm:"not null;default:false" json:"is_used"`
	UsedAt                  *time.Time     `json:"used_at,omitempty"`
	GeneratedForOrderNumber int64          `gorm:"not null;index:idx_discount_slot" json:"generated_for_order_number"`
	UserID                  *int64         `gorm:"index:idx_discount_slot" json:"user_id,omitempty"`
	GenerationType          GenerationType `gorm:"type:varchar(20);not null;default:'AUTO'" json:"generation_type"`
	CreatedAt               time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 適用範囲。「全ユーザー」か「特定ユーザー」のどちらか。
// nilポインタの握り間違いを避けるため、検索や判定はこの型を通す。
type DiscountScope struct {
	allUsers bool
	userID   int64
}

// 全ユーザー向け（管理者のブロードキャスト用）。
func ScopeAllUsers() DiscountScope {
	return DiscountScope{allUsers: true}
}

// 特定ユーザー向け。
func ScopeUser(userID int64) DiscountScope {
	return DiscountScope{userID: userID}
}

func (s DiscountScope) ForAllUsers() bool {
	return s.allUsers
}

// 特定ユーザー向けの場合だけ (userID, true) を返す。
func (s DiscountScope) TargetUserID() (int64, bool) {
	if s.allUsers {
		return 0, false
	}
	return s.userID, true
}

// DBのnullableなuser_idからscopeを復元する。
func (d DiscountCode) Scope() DiscountScope {
	if d.UserID == nil {
		return ScopeAllUsers()
	}
	return ScopeUser(*d.UserID)
}

// このコードをそのユーザーが使えるか。
func (d DiscountCode) AppliesTo(userID int64) bool {
	scope := d.Scope()
	if scope.ForAllUsers() {
		return true
	}
	owner, _ := scope.TargetUserID()
	return owner == userID
}
