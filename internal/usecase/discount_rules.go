package usecase

// 自動発行コードの割引率（%）
const autoDiscountPercentage = 10

// ユーザー個人のk回目の注文が割引対象かどうか。
// n=3なら 3, 6, 9, ... 回目が対象。
func IsDiscountEligibleOrder(orderNumber int64, n int) bool {
	return orderNumber > 0 && orderNumber%int64(n) == 0
}

// n回目ごとの割引に向けて、completed回目の注文を終えた直後に
// 「次の注文用」のコードを発行すべきかどうか。
// n=3なら 2, 5, 8, ... 回目の完了直後に発行する（対象は 3, 6, 9, ...）。
// 発行する注文と使う注文が1つずれている点に注意。
func ShouldGenerateDiscountAfterOrder(completed int64, n int) bool {
	threshold := int64(n - 1)
	return completed >= threshold && (completed-threshold)%int64(n) == 0
}
