package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/transport"
)

// fakeIndexer records indexing calls instead of talking to a search
// backend.
type fakeIndexer struct {
	indexed []uint
	deleted []uint
}

func (f *fakeIndexer) Index(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndexer) Delete(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func validProductRequest(categoryID uint) transport.CreateProductRequest {
	return transport.CreateProductRequest{
		Name:         "keyboard",
		Description:  "a keyboard",
		Brand:        "clack",
		Price:        49.90,
		Category:     categoryID,
		CountInStock: 10,
	}
}

func TestCatalog_CategoryCRUD(t *testing.T) {
	r := newTestRepo(t)
	svc := NewCatalogService(r, nil)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: "toys", Icon: "bear", Color: "#ff0000"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "toys", got.Name)

	updated, err := svc.UpdateCategory(ctx, created.ID, transport.CategoryRequest{Name: "games", Icon: "dice", Color: "#00ff00"})
	require.NoError(t, err)
	assert.Equal(t, "games", updated.Name)

	all, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	_, err = svc.GetCategory(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_CategoryErrors(t *testing.T) {
	r := newTestRepo(t)
	svc := NewCatalogService(r, nil)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, transport.CategoryRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GetCategory(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteCategory(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_CreateProduct_RequiresExistingCategory(t *testing.T) {
	r := newTestRepo(t)
	svc := NewCatalogService(r, nil)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProductRequest(42))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalog_ProductCRUD_UpdatesSearchIndex(t *testing.T) {
	r := newTestRepo(t)
	idx := &fakeIndexer{}
	svc := NewCatalogService(r, idx)
	ctx := context.Background()

	category := seedCategory(t, r, "peripherals")

	product, err := svc.CreateProduct(ctx, validProductRequest(category.ID))
	require.NoError(t, err)
	require.NotZero(t, product.ID)
	assert.Equal(t, []uint{product.ID}, idx.indexed)

	got, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "keyboard", got.Name)
	require.NotNil(t, got.Category)
	assert.Equal(t, "peripherals", got.Category.Name)

	upd := validProductRequest(category.ID)
	upd.Name = "mechanical keyboard"
	upd.Price = 89.90
	updated, err := svc.UpdateProduct(ctx, product.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "mechanical keyboard", updated.Name)
	assert.Equal(t, 89.90, updated.Price)
	assert.Len(t, idx.indexed, 2)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	assert.Equal(t, []uint{product.ID}, idx.deleted)

	_, err = svc.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ListProducts_CategoryFilter(t *testing.T) {
	r := newTestRepo(t)
	svc := NewCatalogService(r, nil)
	ctx := context.Background()

	c1 := seedCategory(t, r, "audio")
	c2 := seedCategory(t, r, "video")
	seedProduct(t, r, "headphones", 20, c1.ID)
	seedProduct(t, r, "speakers", 50, c1.ID)
	seedProduct(t, r, "webcam", 30, c2.ID)

	all, err := svc.ListProducts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	audio, err := svc.ListProducts(ctx, []uint{c1.ID})
	require.NoError(t, err)
	assert.Len(t, audio, 2)
	for _, p := range audio {
		assert.Equal(t, c1.ID, p.CategoryID)
	}
}

func TestCatalog_FeaturedAndCount(t *testing.T) {
	r := newTestRepo(t)
	svc := NewCatalogService(r, nil)
	ctx := context.Background()

	category := seedCategory(t, r, "misc")
	for i := 0; i < 3; i++ {
		seedProduct(t, r, "plain", 5, category.ID)
	}
	for i := 0; i < 2; i++ {
		p := &models.Product{
			Name:         "hot item",
			Description:  "featured",
			Price:        9,
			CategoryID:   category.ID,
			CountInStock: 1,
			IsFeatured:   true,
		}
		require.NoError(t, r.DB.Create(p).Error)
	}

	n, err := svc.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	featured, err := svc.ListFeaturedProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	one, err := svc.ListFeaturedProducts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
	assert.True(t, one[0].IsFeatured)
}

func TestCatalog_UpdateProductGallery(t *testing.T) {
	r := newTestRepo(t)
	svc := NewCatalogService(r, nil)
	ctx := context.Background()

	category := seedCategory(t, r, "misc")
	product := seedProduct(t, r, "camera", 100, category.ID)

	images := []string{"http://x/public/uploads/a.png", "http://x/public/uploads/b.png"}
	updated, err := svc.UpdateProductGallery(ctx, product.ID, images)
	require.NoError(t, err)
	assert.EqualValues(t, images, []string(updated.Images))

	reloaded, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, images, []string(reloaded.Images))
}
