package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算。
	// 事前チェック時の値ではなく減算時点の在庫で判定する（false = 足りない）。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
