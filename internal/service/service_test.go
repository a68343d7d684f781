package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(newTestDB(t))
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Icon: "icon-" + name, Color: "#aabbcc"}
	require.NoError(t, r.DB.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64, categoryID uint) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:         name,
		Description:  name + " description",
		Price:        price,
		CategoryID:   categoryID,
		CountInStock: 100,
	}
	require.NoError(t, r.DB.Create(product).Error)
	return product
}

func seedUser(t *testing.T, r *repo.GormRepo, name, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}
