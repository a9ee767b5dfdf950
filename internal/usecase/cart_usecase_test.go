package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecase() (*usecase.CartUsecase, *MockCartRepo, *MockCartItemRepo, *MockProductRepo) {
	cartRepo := new(MockCartRepo)
	cartItemRepo := new(MockCartItemRepo)
	productRepo := new(MockProductRepo)
	uc := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	return uc, cartRepo, cartItemRepo, productRepo
}

func TestAddToCart_Success(t *testing.T) {
	uc, cartRepo, cartItemRepo, productRepo := newCartUsecase()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Mug", Price: 100, Stock: 30, IsActive: true,
	}, nil)

	//1回目: 空 → 追加後2個
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil).Once()
	cartItemRepo.On("UpsertByCartAndProduct", mock.Anything, int64(5), int64(10), int64(2), "Mug", int64(100)).Return(nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{CartID: 5, ProductID: 10, NameSnapshot: "Mug", UnitPriceSnapshot: 100, Quantity: 2},
	}, nil).Once()

	out, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(200), out.Total)
	assert.Equal(t, 1, len(out.Items))

	cartItemRepo.AssertExpectations(t)
}

func TestAddToCart_SameProductAccumulates(t *testing.T) {
	uc, cartRepo, cartItemRepo, productRepo := newCartUsecase()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Mug", Price: 100, Stock: 30, IsActive: true,
	}, nil)

	//既に2個入っている → +3でUpsert（加算はrepo側）
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{CartID: 5, ProductID: 10, NameSnapshot: "Mug", UnitPriceSnapshot: 100, Quantity: 2},
	}, nil).Once()
	cartItemRepo.On("UpsertByCartAndProduct", mock.Anything, int64(5), int64(10), int64(3), "Mug", int64(100)).Return(nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{CartID: 5, ProductID: 10, NameSnapshot: "Mug", UnitPriceSnapshot: 100, Quantity: 5},
	}, nil).Once()

	out, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(500), out.Total)
}

func TestAddToCart_ExceedsStockWithExisting(t *testing.T) {
	uc, cartRepo, cartItemRepo, productRepo := newCartUsecase()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Mug", Price: 100, Stock: 3, IsActive: true,
	}, nil)

	//既に2個。+2は在庫3を超える
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{CartID: 5, ProductID: 10, Quantity: 2},
	}, nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 2})
	assertErrContains(t, err, "insufficient stock. available: 3")

	cartItemRepo.AssertNotCalled(t, "UpsertByCartAndProduct",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddToCart_InactiveProduct(t *testing.T) {
	uc, cartRepo, _, productRepo := newCartUsecase()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, IsActive: false,
	}, nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 1})
	assertErrStatus(t, err, http.StatusNotFound)
}

func TestAddToCart_InvalidQuantity(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

func TestUpdateCartItem_ItemNotInCart(t *testing.T) {
	uc, cartRepo, cartItemRepo, productRepo := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Stock: 30, IsActive: true}, nil)
	cartItemRepo.On("UpdateQuantityByProduct", mock.Anything, int64(5), int64(10), int64(2)).Return(repo.ErrNotFound)

	_, err := uc.UpdateCartItem(context.Background(), 1, 10, usecase.UpdateCartItemInput{Quantity: 2})
	assertErrContains(t, err, "item not found in cart")
}

func TestRemoveFromCart_Success(t *testing.T) {
	uc, cartRepo, cartItemRepo, _ := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartItemRepo.On("DeleteByProduct", mock.Anything, int64(5), int64(10)).Return(nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.RemoveFromCart(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.Total)
	assert.Equal(t, 0, len(out.Items))
}

func TestClearCart_KeepsCartRow(t *testing.T) {
	uc, cartRepo, _, _ := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartRepo.On("Clear", mock.Anything, int64(5)).Return(nil)

	out, err := uc.ClearCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))

	cartRepo.AssertExpectations(t)
}
