package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/caching"
	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// memoryUserRepo enforces the same uniqueness rules as the users table
type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{nextID: 1, users: map[int64]*models.User{}}
}

func (r *memoryUserRepo) conflict(id int64, username string, email *string) error {
	for _, u := range r.users {
		if u.ID == id {
			continue
		}
		if u.Username == username {
			return repositories.ErrDuplicateUsername
		}
		if email != nil && u.Email != nil && *u.Email == *email {
			return repositories.ErrDuplicateEmail
		}
	}
	return nil
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(0, user.Username, user.Email); err != nil {
		return err
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email != nil && *u.Email == email })
}

func (r *memoryUserRepo) List(context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memoryUserRepo) Update(_ context.Context, id int64, changes models.UserChanges) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	next := *u
	if changes.Username.Set {
		next.Username = changes.Username.Value
	}
	if changes.Email.Set {
		next.Email = changes.Email.Value
	}
	if changes.FullName.Set {
		next.FullName = changes.FullName.Value
	}
	if changes.UserType.Set {
		next.UserType = changes.UserType.Value
	}
	if changes.HashedPassword.Set {
		next.HashedPassword = changes.HashedPassword.Value
	}
	if err := r.conflict(id, next.Username, next.Email); err != nil {
		return nil, err
	}
	r.users[id] = &next
	copied := next
	return &copied, nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memoryOrderRepo struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (r *memoryOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = int64(len(r.orders) + 1)
	order.CreatedAt = time.Now().UTC()
	stored := *order
	r.orders = append(r.orders, &stored)
	return nil
}

func (r *memoryOrderRepo) ListByCreator(_ context.Context, createdBy *string) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders := []*models.Order{}
	for _, o := range r.orders {
		switch {
		case createdBy == nil && o.CreatedBy == nil:
		case createdBy != nil && o.CreatedBy != nil && *o.CreatedBy == *createdBy:
		default:
			continue
		}
		copied := *o
		orders = append(orders, &copied)
	}
	return orders, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(discardLogger())
	return e
}

const testJWTSecret = "handler-test-secret"

type accountsFixture struct {
	echo   *echo.Echo
	repo   *memoryUserRepo
	tokens services.TokenService
}

func newAccountsFixture(identity echo.MiddlewareFunc) *accountsFixture {
	repo := newMemoryUserRepo()
	tokens := services.NewTokenService(testJWTSecret, time.Hour)
	userService := services.NewUserService(
		repo,
		services.NewPasswordHasher(bcrypt.MinCost),
		tokens,
		caching.NewNoopLoginLimiter(),
		[]int64{1, 2},
		discardLogger(),
	)

	e := newTestEcho()
	health := NewHealthHandlers(map[string]Pinger{})
	RegisterAccountsRoutes(e, NewAuthHandlers(userService), NewUserHandlers(userService), health, identity)
	return &accountsFixture{echo: e, repo: repo, tokens: tokens}
}

func newPurchasesFixture(identity echo.MiddlewareFunc) *echo.Echo {
	orderService := services.NewOrderService(&memoryOrderRepo{}, discardLogger())
	e := newTestEcho()
	RegisterPurchasesRoutes(e, NewOrderHandlers(orderService), NewHealthHandlers(map[string]Pinger{}), identity)
	return e
}

func newStoredUser(username, hashed string) *models.User {
	return &models.User{Username: username, UserType: models.DefaultUserType, HashedPassword: hashed}
}

func newJSONRequest(method, path, body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(method, path, nil)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// do sends a JSON request; callerID is sent as the identity header when not empty
func do(e *echo.Echo, method, path, body, callerID string) *httptest.ResponseRecorder {
	req := newJSONRequest(method, path, body)
	if callerID != "" {
		req.Header.Set(common.CallerHeader, callerID)
	}
	return serve(e, req)
}
