package auth_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/model"
	"shop/internal/repository"
	auth "shop/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementTotalOrders(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// =====================
// Fakes
// =====================

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type fakeIssuer struct{}

func (i *fakeIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

// =====================
// Register
// =====================

func newRegisterUsecase(userRepo *MockUserRepository) *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(bcrypt.MinCost), &fakeIssuer{}, &fixedClock{t: testNow})
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newRegisterUsecase(userRepo)

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "taro@example.com" &&
			u.Role == model.RoleUser &&
			u.TotalOrders == 0 &&
			u.IsActive &&
			u.PasswordHash != "" && u.PasswordHash != "password1"
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name:     "Taro",
		Email:    "Taro@Example.com",
		Password: "password1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "taro@example.com", out.User.Email)
	assert.Empty(t, out.User.PasswordHash)
	assert.Equal(t, "token", out.Token.AccessToken)

	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newRegisterUsecase(userRepo)

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{ID: 1}, nil)

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_PasswordTooShort(t *testing.T) {
	uc := newRegisterUsecase(new(MockUserRepository))

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegister_InvalidEmail(t *testing.T) {
	uc := newRegisterUsecase(new(MockUserRepository))

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name:     "Taro",
		Email:    "not-an-email",
		Password: "password1",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

// =====================
// Login
// =====================

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{t: testNow})

	hash := mustHash(t, "password1")
	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID: 1, Email: "taro@example.com", PasswordHash: hash, Role: model.RoleUser, IsActive: true,
	}, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil && u.LastLoginAt.Equal(testNow)
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "taro@example.com", Password: "password1"})
	assert.NoError(t, err)
	assert.Equal(t, "token", out.Token.AccessToken)
	assert.Equal(t, int((15 * time.Minute).Seconds()), out.Token.ExpiresIn)
	assert.Empty(t, out.User.PasswordHash)

	userRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{t: testNow})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID: 1, PasswordHash: mustHash(t, "password1"), IsActive: true,
	}, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "taro@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{t: testNow})

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{t: testNow})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID: 1, PasswordHash: mustHash(t, "password1"), IsActive: false,
	}, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "taro@example.com", Password: "password1"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

func TestAdminLogin_RejectsNonAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := auth.NewAdminLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{t: testNow})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID: 1, PasswordHash: mustHash(t, "password1"), Role: model.RoleUser, IsActive: true,
	}, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "taro@example.com", Password: "password1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAdminLogin_AllowsAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := auth.NewAdminLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{t: testNow})

	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(&model.User{
		ID: 2, PasswordHash: mustHash(t, "admin12345"), Role: model.RoleAdmin, IsActive: true,
	}, nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "admin@example.com", Password: "admin12345"})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, out.User.Role)
}
