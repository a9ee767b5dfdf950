package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// 採番カウンタの1行をUPSERTして新しい値を受け取る。
// max(order_number)+1 のread-then-writeだと同時実行で重複するのでやらない。
func (r *OrderGormRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO order_sequences (id, value) VALUES (1, 1)
		 ON CONFLICT (id) DO UPDATE SET value = order_sequences.value + 1
		 RETURNING value`,
	).Scan(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

// analytics用の集計。注文数・購入点数・購入総額・割引総額。
func (r *OrderGormRepository) Totals(ctx context.Context) (repo.OrderTotals, error) {
	var t repo.OrderTotals

	row := struct {
		OrderCount          int64
		TotalPurchaseAmount int64
		TotalDiscountAmount int64
	}{}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS total_purchase_amount, COALESCE(SUM(discount_amount), 0) AS total_discount_amount").
		Scan(&row).Error
	if err != nil {
		return repo.OrderTotals{}, err
	}

	var itemsPurchased int64
	err = r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&itemsPurchased).Error
	if err != nil {
		return repo.OrderTotals{}, err
	}

	t.OrderCount = row.OrderCount
	t.TotalPurchaseAmount = row.TotalPurchaseAmount
	t.TotalDiscountAmount = row.TotalDiscountAmount
	t.ItemsPurchased = itemsPurchased
	return t, nil
}
