package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
)

// DiscountUsecaseは割引台帳の読み取りと、
// 「次の注文で使える割引」の検索、管理者の手動発行を担当する。
// 自動発行そのものはチェックアウトのトランザクション内で行う。
type DiscountUsecase struct {
	userRepo     repo.UserRepository
	discountRepo repo.DiscountRepository
	auditRepo    repo.AuditLogRepository
	nthOrder     int
}

func NewDiscountUsecase(
	userRepo repo.UserRepository,
	discountRepo repo.DiscountRepository,
	auditRepo repo.AuditLogRepository,
	nthOrder int,
) *DiscountUsecase {
	return &DiscountUsecase{
		userRepo:     userRepo,
		discountRepo: discountRepo,
		auditRepo:    auditRepo,
		nthOrder:     nthOrder,
	}
}

// 次の注文（total_orders+1）が割引対象なら、そのスロットの未使用コードを返す。
// 個人向けを先に探し、無ければ全ユーザー向け（管理者発行）を探す。
// 対象外・見つからない場合はnil。
func (u *DiscountUsecase) GetAvailableDiscount(ctx context.Context, userID int64) (*model.DiscountCode, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	nextOrderNumber := user.TotalOrders + 1
	if !IsDiscountEligibleOrder(nextOrderNumber, u.nthOrder) {
		return nil, nil
	}

	//個人向けが優先
	d, err := u.discountRepo.FindUnusedForSlot(ctx, model.ScopeUser(userID), nextOrderNumber)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//無ければ全ユーザー向け
	d, err = u.discountRepo.FindUnusedForSlot(ctx, model.ScopeAllUsers(), nextOrderNumber)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil, nil
}

func (u *DiscountUsecase) ListAll(ctx context.Context) ([]model.DiscountCode, error) {
	list, err := u.discountRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *DiscountUsecase) ListAvailable(ctx context.Context) ([]model.DiscountCode, error) {
	list, err := u.discountRepo.ListUnused(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *DiscountUsecase) ListUsed(ctx context.Context) ([]model.DiscountCode, error) {
	list, err := u.discountRepo.ListUsed(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *DiscountUsecase) GetByCode(ctx context.Context, code string) (model.DiscountCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.DiscountCode{}, NewHTTPError(http.StatusBadRequest, "code required")
	}

	d, err := u.discountRepo.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return model.DiscountCode{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.DiscountCode{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return d, nil
}

type AdminCreateDiscountInput struct {
	DiscountPercentage      int64
	GeneratedForOrderNumber int64
	// nilなら全ユーザー向け
	UserID *int64
}

// 管理者の手動発行。全ユーザー向けのブロードキャストも、特定ユーザー向けも作れる。
func (u *DiscountUsecase) AdminCreateDiscount(ctx context.Context, adminUserID int64, in AdminCreateDiscountInput) (model.DiscountCode, error) {
	if adminUserID <= 0 {
		return model.DiscountCode{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.DiscountPercentage < 1 || in.DiscountPercentage > 100 {
		return model.DiscountCode{}, NewHTTPError(http.StatusBadRequest, "discount_percentage must be 1-100")
	}
	if in.GeneratedForOrderNumber < 1 {
		return model.DiscountCode{}, NewHTTPError(http.StatusBadRequest, "generated_for_order_number must be >= 1")
	}
	if in.UserID != nil && *in.UserID <= 0 {
		return model.DiscountCode{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}

	now := time.Now()
	code := fmt.Sprintf("PROMO-%s", strings.ToUpper(uuid.NewString()[:8]))

	created, err := u.discountRepo.Create(ctx, model.DiscountCode{
		Code:                    code,
		DiscountPercentage:      in.DiscountPercentage,
		IsUsed:                  false,
		GeneratedForOrderNumber: in.GeneratedForOrderNumber,
		UserID:                  in.UserID,
		GenerationType:          model.GenerationTypeManual,
		CreatedAt:               now,
		UpdatedAt:               now,
	})
	if errors.Is(err, repo.ErrDuplicateCode) {
		return model.DiscountCode{}, NewHTTPError(http.StatusConflict, "code already exists")
	}
	if err != nil {
		return model.DiscountCode{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査ログ（失敗しても発行自体は成立させる）
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionCreateDiscount,
		ResourceType: model.AuditResourceDiscount,
		ResourceID:   created.ID,
		Detail:       fmt.Sprintf("code=%s pct=%d for_order=%d", created.Code, created.DiscountPercentage, created.GeneratedForOrderNumber),
		CreatedAt:    now,
	})

	return created, nil
}
