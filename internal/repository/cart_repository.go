package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)

	//明細を全削除して空にする（カート自体は残す）
	Clear(ctx context.Context, cartID int64) error
}
