package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// 注文の集計（管理画面のanalytics用）。
type OrderTotals struct {
	OrderCount          int64
	ItemsPurchased      int64
	TotalPurchaseAmount int64
	TotalDiscountAmount int64
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// 次のグローバル注文番号を採番する（1始まり、欠番なし）。
	// 採番カウンタ行のUPDATEで行ロックを取るので、同時実行でも重複しない。
	NextOrderNumber(ctx context.Context) (int64, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	//管理者用の集計
	Totals(ctx context.Context) (OrderTotals, error)
}
