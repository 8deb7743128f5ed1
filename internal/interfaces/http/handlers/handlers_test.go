package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"unimarket/internal/application/billing/gateway"
	"unimarket/internal/application/billing/usecases"
	"unimarket/internal/domain/billing"
	billingvo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	"unimarket/internal/domain/user"
	"unimarket/internal/shared/logger"
)

type mockOrderRepository struct {
	CreateFunc               func(ctx context.Context, order *billing.Order) error
	UpdateFunc               func(ctx context.Context, order *billing.Order) error
	GetByOrderIDFunc         func(ctx context.Context, orderID string) (*billing.Order, error)
	FindLatestTokenOrderFunc func(ctx context.Context, userID uint) (*billing.Order, error)
}

func (m *mockOrderRepository) Create(ctx context.Context, order *billing.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil
}

func (m *mockOrderRepository) Update(ctx context.Context, order *billing.Order) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, order)
	}
	return nil
}

func (m *mockOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*billing.Order, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *mockOrderRepository) FindLatestTokenOrder(ctx context.Context, userID uint) (*billing.Order, error) {
	if m.FindLatestTokenOrderFunc != nil {
		return m.FindLatestTokenOrderFunc(ctx, userID)
	}
	return nil, nil
}

type mockSubscriptionRepository struct {
	CreateFunc            func(ctx context.Context, sub *subscription.Subscription) error
	UpdateFunc            func(ctx context.Context, sub *subscription.Subscription) error
	GetByIDFunc           func(ctx context.Context, id uint) (*subscription.Subscription, error)
	GetActiveByUserIDFunc func(ctx context.Context, userID uint) (*subscription.Subscription, error)
	FindDueForRenewalFunc func(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetActiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	if m.GetActiveByUserIDFunc != nil {
		return m.GetActiveByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindDueForRenewal(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	if m.FindDueForRenewalFunc != nil {
		return m.FindDueForRenewalFunc(ctx, cutoff)
	}
	return nil, nil
}

type mockPlanRepository struct {
	GetByIDFunc   func(ctx context.Context, id uint) (*subscription.Plan, error)
	GetByTypeFunc func(ctx context.Context, planType string) (*subscription.Plan, error)
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepository) GetByType(ctx context.Context, planType string) (*subscription.Plan, error) {
	if m.GetByTypeFunc != nil {
		return m.GetByTypeFunc(ctx, planType)
	}
	return nil, nil
}

type mockUserRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*user.User, error)
	UpdateFunc  func(ctx context.Context, u *user.User) error
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	return nil
}

type mockPaymentGateway struct {
	StartPaymentFunc           func(ctx context.Context, req gateway.StartPaymentRequest) *gateway.PaymentResult
	CreateRecurringPaymentFunc func(ctx context.Context, req gateway.RecurringPaymentRequest) *gateway.PaymentResult
}

func (m *mockPaymentGateway) StartPayment(ctx context.Context, req gateway.StartPaymentRequest) *gateway.PaymentResult {
	if m.StartPaymentFunc != nil {
		return m.StartPaymentFunc(ctx, req)
	}
	return &gateway.PaymentResult{Success: true, Status: billing.GatewayStatusPendingAuth}
}

func (m *mockPaymentGateway) CreateRecurringPayment(ctx context.Context, req gateway.RecurringPaymentRequest) *gateway.PaymentResult {
	if m.CreateRecurringPaymentFunc != nil {
		return m.CreateRecurringPaymentFunc(ctx, req)
	}
	return &gateway.PaymentResult{Success: true, Status: billing.GatewayStatusConfirmed}
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                   {}
func (m *mockLogger) Info(msg string, args ...any)                    {}
func (m *mockLogger) Warn(msg string, args ...any)                    {}
func (m *mockLogger) Error(msg string, args ...any)                   {}
func (m *mockLogger) With(args ...any) logger.Interface               { return m }
func (m *mockLogger) Named(name string) logger.Interface              { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}

// handlerDeps bundles the mocks behind one handler setup.
type handlerDeps struct {
	orderRepo *mockOrderRepository
	subRepo   *mockSubscriptionRepository
	planRepo  *mockPlanRepository
	userRepo  *mockUserRepository
	gateway   *mockPaymentGateway
}

func newHandlerDeps() *handlerDeps {
	return &handlerDeps{
		orderRepo: &mockOrderRepository{},
		subRepo:   &mockSubscriptionRepository{},
		planRepo:  &mockPlanRepository{},
		userRepo:  &mockUserRepository{},
		gateway:   &mockPaymentGateway{},
	}
}

func (d *handlerDeps) reconciler() *usecases.PaymentReconciler {
	return usecases.NewPaymentReconciler(d.orderRepo, d.subRepo, d.planRepo, d.userRepo, &mockLogger{})
}

func premiumPrice() billingvo.Money {
	return billingvo.NewMoney(4990, "RON")
}

func buildOrder(t *testing.T, userID uint) *billing.Order {
	t.Helper()
	order, err := billing.NewOrder(userID, 2, "premium", premiumPrice(), billingvo.OriginInitial, billing.BillingInfo{
		Email: "ana@example.com",
		Name:  "Ana Pop",
	})
	require.NoError(t, err)
	order.SetID(100)
	return order
}

func buildUser(t *testing.T) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(user.UserReconstructParams{
		ID:        1,
		Email:     "ana@example.com",
		Name:      "Ana Pop",
		PlanType:  user.PlanBasic,
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return u
}

func init() {
	gin.SetMode(gin.TestMode)
}
