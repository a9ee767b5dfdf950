package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type MockOrderRepo struct{ mock.Mock }

func (m *MockOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepo) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepo) NextOrderNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepo) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) Totals(ctx context.Context) (repo.OrderTotals, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).(repo.OrderTotals)
	return t, args.Error(1)
}

type MockOrderItemRepo struct{ mock.Mock }

func (m *MockOrderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockOrderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type MockCartRepo struct{ mock.Mock }

func (m *MockCartRepo) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *MockCartRepo) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *MockCartRepo) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type MockCartItemRepo struct{ mock.Mock }

func (m *MockCartItemRepo) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *MockCartItemRepo) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, nameSnapshot string, unitPriceSnapshot int64) error {
	args := m.Called(ctx, cartID, productID, addQty, nameSnapshot, unitPriceSnapshot)
	return args.Error(0)
}

func (m *MockCartItemRepo) UpdateQuantityByProduct(ctx context.Context, cartID int64, productID int64, qty int64) error {
	args := m.Called(ctx, cartID, productID, qty)
	return args.Error(0)
}

func (m *MockCartItemRepo) DeleteByProduct(ctx context.Context, cartID int64, productID int64) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

type MockProductRepo struct{ mock.Mock }

func (m *MockProductRepo) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) ListAdmin(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *MockProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *MockProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInventoryRepo struct{ mock.Mock }

func (m *MockInventoryRepo) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTotalOrders(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

type MockDiscountRepo struct{ mock.Mock }

func (m *MockDiscountRepo) FindByCode(ctx context.Context, code string) (model.DiscountCode, error) {
	args := m.Called(ctx, code)
	d, _ := args.Get(0).(model.DiscountCode)
	return d, args.Error(1)
}

func (m *MockDiscountRepo) MarkUsed(ctx context.Context, code string, usedAt time.Time) (bool, error) {
	args := m.Called(ctx, code, usedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockDiscountRepo) Create(ctx context.Context, d model.DiscountCode) (model.DiscountCode, error) {
	args := m.Called(ctx, d)
	created, _ := args.Get(0).(model.DiscountCode)
	return created, args.Error(1)
}

func (m *MockDiscountRepo) FindByUserAndTarget(ctx context.Context, userID int64, targetOrderNumber int64) (model.DiscountCode, error) {
	args := m.Called(ctx, userID, targetOrderNumber)
	d, _ := args.Get(0).(model.DiscountCode)
	return d, args.Error(1)
}

func (m *MockDiscountRepo) FindUnusedForSlot(ctx context.Context, scope model.DiscountScope, targetOrderNumber int64) (model.DiscountCode, error) {
	args := m.Called(ctx, scope, targetOrderNumber)
	d, _ := args.Get(0).(model.DiscountCode)
	return d, args.Error(1)
}

func (m *MockDiscountRepo) ListAll(ctx context.Context) ([]model.DiscountCode, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.DiscountCode)
	return list, args.Error(1)
}

func (m *MockDiscountRepo) ListUnused(ctx context.Context) ([]model.DiscountCode, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.DiscountCode)
	return list, args.Error(1)
}

func (m *MockDiscountRepo) ListUsed(ctx context.Context) ([]model.DiscountCode, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.DiscountCode)
	return list, args.Error(1)
}

type MockAuditRepo struct{ mock.Mock }

func (m *MockAuditRepo) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepo) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Tx fakes
// =====================

// テスト用のTxRepos。各mockをそのまま返す。
type fakeTxRepos struct {
	orders     *MockOrderRepo
	orderItems *MockOrderItemRepo
	carts      *MockCartRepo
	cartItems  *MockCartItemRepo
	products   *MockProductRepo
	inventory  *MockInventoryRepo
	users      *MockUserRepo
	discounts  *MockDiscountRepo
}

func newFakeTxRepos() *fakeTxRepos {
	return &fakeTxRepos{
		orders:     new(MockOrderRepo),
		orderItems: new(MockOrderItemRepo),
		carts:      new(MockCartRepo),
		cartItems:  new(MockCartItemRepo),
		products:   new(MockProductRepo),
		inventory:  new(MockInventoryRepo),
		users:      new(MockUserRepo),
		discounts:  new(MockDiscountRepo),
	}
}

func (f *fakeTxRepos) Orders() repo.OrderRepository         { return f.orders }
func (f *fakeTxRepos) OrderItems() repo.OrderItemRepository { return f.orderItems }
func (f *fakeTxRepos) Carts() repo.CartRepository           { return f.carts }
func (f *fakeTxRepos) CartItems() repo.CartItemRepository   { return f.cartItems }
func (f *fakeTxRepos) Products() repo.ProductRepository     { return f.products }
func (f *fakeTxRepos) Inventory() repo.InventoryRepository  { return f.inventory }
func (f *fakeTxRepos) Users() repo.UserRepository           { return f.users }
func (f *fakeTxRepos) Discounts() repo.DiscountRepository   { return f.discounts }

// テスト用のTransactionManager。fnをそのまま実行するだけ。
type fakeTxManager struct {
	repos *fakeTxRepos
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if !strings.Contains(he.Message, want) {
		t.Fatalf("expected error containing %q, got %q", want, he.Message)
	}
}

func assertErrStatus(t *testing.T, err error, wantStatus int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", wantStatus)
	}
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Status != wantStatus {
		t.Fatalf("expected status %d, got %d (%s)", wantStatus, he.Status, he.Message)
	}
}
