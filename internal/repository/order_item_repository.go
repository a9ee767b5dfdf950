package repository

import (
	"context"

	"shop/internal/domain/model"
)

type OrderItemRepository interface {
	//注文明細を一括作成
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error

	//注文の明細一覧
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
