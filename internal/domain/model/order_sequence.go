package model

// グローバル注文番号の採番カウンタ（1行だけ使う）。
// 行ロックを持ったままコミットまで進むので、同時チェックアウトでも
// 番号は重複せず、ロールバックされれば欠番も出ない。
type OrderSequence struct {
	ID    int64 `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}
