package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"go.uber.org/zap"
)

// CheckoutUsecaseはチェックアウトの本体。
// カート検証→割引消費→採番→注文作成→在庫減算→total_orders加算→
// 次回割引の自動発行→カートクリア、を1トランザクションで行う。
// 途中で失敗したら全部巻き戻る（割引だけ消費されて注文が無い、は起きない）。
type CheckoutUsecase struct {
	tx       repo.TransactionManager
	nthOrder int
	logger   *zap.Logger
}

func NewCheckoutUsecase(tx repo.TransactionManager, nthOrder int, logger *zap.Logger) *CheckoutUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutUsecase{tx: tx, nthOrder: nthOrder, logger: logger}
}

type CheckoutInput struct {
	DiscountCode string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"user_id"`
	OrderNumber    int64             `json:"order_number"`
	Status         string            `json:"status"`
	TotalAmount    int64             `json:"total_amount"`
	DiscountAmount int64             `json:"discount_amount"`
	DiscountCode   *string           `json:"discount_code,omitempty"`
	FinalAmount    int64             `json:"final_amount"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemOutput `json:"items"`
}

func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート取得。無い・空なら弾く
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//全明細の在庫を事前チェック（確定時に再チェックして減らす）
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %s not found", ci.NameSnapshot))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if p.Stock < ci.Quantity {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("insufficient stock for %s. available: %d", ci.NameSnapshot, p.Stock))
			}
		}

		//ユーザーの存在確認
		if _, err := r.Users().FindByID(ctx, userID); err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				return NewHTTPError(http.StatusNotFound, "user not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート合計は明細から再計算する（保存値は信用しない）
		var totalAmount int64 = 0
		for _, ci := range cartItems {
			totalAmount += ci.UnitPriceSnapshot * ci.Quantity
		}

		//割引コードの検証
		var discountAmount int64 = 0
		var appliedCode *string
		if in.DiscountCode != "" {
			d, err := r.Discounts().FindByCode(ctx, in.DiscountCode)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "invalid discount code")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if d.IsUsed {
				return NewHTTPError(http.StatusBadRequest, "discount code has already been used")
			}
			if !d.AppliesTo(userID) {
				return NewHTTPError(http.StatusBadRequest, "this discount code is not valid for your account")
			}

			discountAmount = totalAmount * d.DiscountPercentage / 100

			//未使用のときだけ使用済みへ。同時に使われていたらここで負ける
			ok, err := r.Discounts().MarkUsed(ctx, d.Code, time.Now())
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "discount code has already been used")
			}

			code := d.Code
			appliedCode = &code
		}

		finalAmount := totalAmount - discountAmount

		//グローバル注文番号の採番（カウンタ行のロックで直列化）
		orderNumber, err := r.Orders().NextOrderNumber(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文作成。明細はカートのコピー（スナップショット）
		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:         userID,
			OrderNumber:    orderNumber,
			Status:         model.OrderStatusCompleted,
			TotalAmount:    totalAmount,
			DiscountAmount: discountAmount,
			DiscountCode:   appliedCode,
			FinalAmount:    finalAmount,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: ci.NameSnapshot,
				UnitPriceSnapshot:   ci.UnitPriceSnapshot,
				Quantity:            ci.Quantity,
				CreatedAt:           now,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫減算。減算時点で足りなければ注文ごと失敗
		for _, ci := range cartItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("insufficient stock for %s", ci.NameSnapshot))
			}
		}

		//ユーザーの累計注文数を+1。この値nで自動発行を判定する
		n, err := r.Users().IncrementTotalOrders(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//n回目を完了した直後、n+1回目が割引対象になるなら発行
		if ShouldGenerateDiscountAfterOrder(n, u.nthOrder) {
			target := n + 1
			d, err := u.generateAutomaticDiscount(ctx, r, userID, target)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			u.logger.Info("generated automatic discount code",
				zap.Int64("user_id", userID),
				zap.Int64("for_order_number", target),
				zap.String("code", d.Code),
			)
		}

		//カートを空にする（カート自体は残す）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:             orderID,
			UserID:         userID,
			OrderNumber:    orderNumber,
			Status:         model.OrderStatusCompleted,
			TotalAmount:    totalAmount,
			DiscountAmount: discountAmount,
			DiscountCode:   appliedCode,
			FinalAmount:    finalAmount,
			CreatedAt:      now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.logger.Info("checkout completed",
		zap.Int64("user_id", userID),
		zap.Int64("order_number", out.OrderNumber),
		zap.Int64("final_amount", out.FinalAmount),
	)
	return out, nil
}

// (ユーザー, 対象注文番号) につき1つだけ発行する。
// 既にあればそれを返す（二重呼び出しされても増えない）。
func (u *CheckoutUsecase) generateAutomaticDiscount(ctx context.Context, r repo.TxRepos, userID int64, forOrderNumber int64) (model.DiscountCode, error) {
	existing, err := r.Discounts().FindByUserAndTarget(ctx, userID, forOrderNumber)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.DiscountCode{}, err
	}

	uid := userID
	now := time.Now()
	created, err := r.Discounts().Create(ctx, model.DiscountCode{
		Code:                    fmt.Sprintf("AUTO%d-%d", forOrderNumber, now.UnixMilli()),
		DiscountPercentage:      autoDiscountPercentage,
		IsUsed:                  false,
		GeneratedForOrderNumber: forOrderNumber,
		UserID:                  &uid,
		GenerationType:          model.GenerationTypeAuto,
		CreatedAt:               now,
		UpdatedAt:               now,
	})
	if errors.Is(err, repo.ErrDuplicateCode) {
		//同時に発行されていた場合はそれを使う
		return r.Discounts().FindByUserAndTarget(ctx, userID, forOrderNumber)
	}
	if err != nil {
		return model.DiscountCode{}, err
	}
	return created, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:             o.ID,
		UserID:         o.UserID,
		OrderNumber:    o.OrderNumber,
		Status:         string(o.Status),
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		DiscountCode:   o.DiscountCode,
		FinalAmount:    o.FinalAmount,
		CreatedAt:      o.CreatedAt,
		Items:          outItems,
	}
}
