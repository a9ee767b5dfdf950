package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Products() ProductRepository
	Inventory() InventoryRepository
	Users() UserRepository
	Discounts() DiscountRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// チェックアウトは全部この中で行う（全成功か全取り消しか）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
