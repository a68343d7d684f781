package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/repo"
	"github.com/nkropachev/eshop/internal/service"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

// fakePublisher captures events instead of writing to a broker.
type fakePublisher struct {
	events []recordedEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	payload, _ := event.(map[string]any)
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: payload})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type testEnv struct {
	e        *echo.Echo
	repo     *repo.GormRepo
	producer *fakePublisher

	orders     *OrderHTTP
	products   *ProductHTTP
	categories *CategoryHTTP
	users      *UserHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	r := repo.New(db)

	producer := &fakePublisher{}
	return &testEnv{
		e:        echo.New(),
		repo:     r,
		producer: producer,

		orders:     &OrderHTTP{Svc: service.NewOrderService(r), Producer: producer},
		products:   &ProductHTTP{Svc: service.NewCatalogService(r, nil), Producer: producer},
		categories: &CategoryHTTP{Svc: service.NewCatalogService(r, nil)},
		users:      &UserHTTP{Svc: service.NewUserService(r, []byte("test-secret")), Producer: producer},
	}
}

// request builds an echo context for invoking a handler directly.
func (env *testEnv) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func (env *testEnv) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Icon: "icon-" + name, Color: "#aabbcc"}
	require.NoError(t, env.repo.DB.Create(category).Error)
	return category
}

func (env *testEnv) seedProduct(t *testing.T, name string, price float64, categoryID uint) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:         name,
		Description:  name + " description",
		Price:        price,
		CategoryID:   categoryID,
		CountInStock: 100,
	}
	require.NoError(t, env.repo.DB.Create(product).Error)
	return product
}

func (env *testEnv) seedUser(t *testing.T, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, env.repo.DB.Create(user).Error)
	return user
}

// httpStatus digs the status code out of a handler error.
func httpStatus(t *testing.T, err error) int {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}
