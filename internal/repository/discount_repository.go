package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
)

// 同じcode文字列がすでに存在する
var ErrDuplicateCode = errors.New("discount code already exists")

// 割引台帳の約束。
type DiscountRepository interface {
	FindByCode(ctx context.Context, code string) (model.DiscountCode, error)

	// 未使用のときだけ使用済みにしてusedAtを入れる。
	// false = すでに使われていた（同時リクエストの二重消費をここで止める）。
	MarkUsed(ctx context.Context, code string, usedAt time.Time) (bool, error)

	Create(ctx context.Context, d model.DiscountCode) (model.DiscountCode, error)

	// 生成の冪等性チェック用。(ユーザー, 対象注文番号) のコードを使用状態に関係なく探す。
	FindByUserAndTarget(ctx context.Context, userID int64, targetOrderNumber int64) (model.DiscountCode, error)

	// 「いま使える割引」の検索。scopeと対象注文番号が一致する未使用コードを探す。
	FindUnusedForSlot(ctx context.Context, scope model.DiscountScope, targetOrderNumber int64) (model.DiscountCode, error)

	//読み取り系（管理画面）
	ListAll(ctx context.Context) ([]model.DiscountCode, error)
	ListUnused(ctx context.Context) ([]model.DiscountCode, error)
	ListUsed(ctx context.Context) ([]model.DiscountCode, error)
}
