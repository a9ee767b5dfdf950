package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type DiscountGormRepository struct {
	db *gorm.DB
}

func NewDiscountGormRepository(db *gorm.DB) *DiscountGormRepository {
	return &DiscountGormRepository{db: db}
}

func (r *DiscountGormRepository) FindByCode(ctx context.Context, code string) (model.DiscountCode, error) {
	var d model.DiscountCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DiscountCode{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DiscountCode{}, err
	}
	return d, nil
}

// 未使用のときだけ使用済みにする。
// WHEREにis_used = falseを入れて、同時リクエストでの二重消費を防ぐ。
func (r *DiscountGormRepository) MarkUsed(ctx context.Context, code string, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.DiscountCode{}).
		Where("code = ? AND is_used = ?", code, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": usedAt,
		})

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

func (r *DiscountGormRepository) Create(ctx context.Context, d model.DiscountCode) (model.DiscountCode, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		//codeのuniqueIndex違反は専用エラーにする
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.DiscountCode{}, repo.ErrDuplicateCode
		}
		return model.DiscountCode{}, err
	}
	return d, nil
}

// (ユーザー, 対象注文番号) のコードを使用状態に関係なく探す。
func (r *DiscountGormRepository) FindByUserAndTarget(ctx context.Context, userID int64, targetOrderNumber int64) (model.DiscountCode, error) {
	var d model.DiscountCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND generated_for_order_number = ?", userID, targetOrderNumber).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DiscountCode{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DiscountCode{}, err
	}
	return d, nil
}

// scopeと対象注文番号が一致する未使用コードを探す。
func (r *DiscountGormRepository) FindUnusedForSlot(ctx context.Context, scope model.DiscountScope, targetOrderNumber int64) (model.DiscountCode, error) {
	q := r.db.WithContext(ctx).
		Where("generated_for_order_number = ? AND is_used = ?", targetOrderNumber, false)

	if userID, ok := scope.TargetUserID(); ok {
		q = q.Where("user_id = ?", userID)
	} else {
		q = q.Where("user_id IS NULL")
	}

	var d model.DiscountCode
	err := q.Order("id asc").First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DiscountCode{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DiscountCode{}, err
	}
	return d, nil
}

func (r *DiscountGormRepository) ListAll(ctx context.Context) ([]model.DiscountCode, error) {
	var list []model.DiscountCode
	if err := r.db.WithContext(ctx).
		Order("created_at desc").Order("id desc").
		Find(&list).Error; err != nil {
		return []model.DiscountCode{}, err
	}
	return list, nil
}

func (r *DiscountGormRepository) ListUnused(ctx context.Context) ([]model.DiscountCode, error) {
	var list []model.DiscountCode
	if err := r.db.WithContext(ctx).
		Where("is_used = ?", false).
		Order("created_at desc").Order("id desc").
		Find(&list).Error; err != nil {
		return []model.DiscountCode{}, err
	}
	return list, nil
}

func (r *DiscountGormRepository) ListUsed(ctx context.Context) ([]model.DiscountCode, error) {
	var list []model.DiscountCode
	if err := r.db.WithContext(ctx).
		Where("is_used = ?", true).
		Order("used_at desc").Order("id desc").
		Find(&list).Error; err != nil {
		return []model.DiscountCode{}, err
	}
	return list, nil
}
