package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品はプラス。商品名と価格は追加時点のスナップショットで持つ。
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, nameSnapshot string, unitPriceSnapshot int64) error
	UpdateQuantityByProduct(ctx context.Context, cartID int64, productID int64, qty int64) error
	DeleteByProduct(ctx context.Context, cartID int64, productID int64) error
}
