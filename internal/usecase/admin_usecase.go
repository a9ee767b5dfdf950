package usecase

import (
	"context"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// AdminUsecaseは管理画面の読み取り系（analytics・一覧）。
type AdminUsecase struct {
	tx        repo.TransactionManager
	userRepo  repo.UserRepository
	auditRepo repo.AuditLogRepository
	nthOrder  int
}

func NewAdminUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	auditRepo repo.AuditLogRepository,
	nthOrder int,
) *AdminUsecase {
	return &AdminUsecase{
		tx:        tx,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		nthOrder:  nthOrder,
	}
}

type AnalyticsDiscountOutput struct {
	Code                    string     `json:"code"`
	DiscountPercentage      int64      `json:"discount_percentage"`
	IsUsed                  bool       `json:"is_used"`
	UsedAt                  *time.Time `json:"used_at,omitempty"`
	GeneratedForOrderNumber int64      `json:"generated_for_order_number"`
	GenerationType          string     `json:"generation_type"`
	UserID                  *int64     `json:"user_id,omitempty"`
}

type AnalyticsOutput struct {
	TotalItemsPurchased int64                     `json:"total_items_purchased"`
	TotalPurchaseAmount int64                     `json:"total_purchase_amount"`
	TotalDiscountAmount int64                     `json:"total_discount_amount"`
	TotalOrders         int64                     `json:"total_orders"`
	DiscountCodes       []AnalyticsDiscountOutput `json:"discount_codes"`
}

// 集計値と割引コード一覧をまとめて返す。
func (u *AdminUsecase) GetAnalytics(ctx context.Context) (AnalyticsOutput, error) {
	var out AnalyticsOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		totals, err := r.Orders().Totals(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		codes, err := r.Discounts().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = AnalyticsOutput{
			TotalItemsPurchased: totals.ItemsPurchased,
			TotalPurchaseAmount: totals.TotalPurchaseAmount,
			TotalDiscountAmount: totals.TotalDiscountAmount,
			TotalOrders:         totals.OrderCount,
			DiscountCodes:       make([]AnalyticsDiscountOutput, 0, len(codes)),
		}
		for _, c := range codes {
			out.DiscountCodes = append(out.DiscountCodes, AnalyticsDiscountOutput{
				Code:                    c.Code,
				DiscountPercentage:      c.DiscountPercentage,
				IsUsed:                  c.IsUsed,
				UsedAt:                  c.UsedAt,
				GeneratedForOrderNumber: c.GeneratedForOrderNumber,
				GenerationType:          string(c.GenerationType),
				UserID:                  c.UserID,
			})
		}
		return nil
	})

	if err != nil {
		return AnalyticsOutput{}, err
	}
	return out, nil
}

// 割引間隔Nの現在値
func (u *AdminUsecase) GetNthOrderValue() int {
	return u.nthOrder
}

type AdminListOrdersInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
}

func (u *AdminUsecase) ListOrders(ctx context.Context, in AdminListOrdersInput) (AdminOrderListOutput, error) {
	if in.Page < 0 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 0 || in.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var out AdminOrderListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = AdminOrderListOutput{Items: orders, Total: total}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// パスワードハッシュは返さない（modelのjson:"-"で落ちる）
func (u *AdminUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.userRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}

func (u *AdminUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}
