package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nkropachev/eshop/internal/logging"
	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/repo"
	"github.com/nkropachev/eshop/internal/transport"
)

// ProductIndexer mirrors catalog mutations into the search index. Indexing
// is best-effort: failures are logged, never surfaced to the client.
type ProductIndexer interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo    *repo.GormRepo
	Indexer ProductIndexer
}

func NewCatalogService(r *repo.GormRepo, idx ProductIndexer) *CatalogService {
	return &CatalogService{Repo: r, Indexer: idx}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	category := &models.Category{Name: req.Name, Icon: req.Icon, Color: req.Color}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Icon = req.Icon
	category.Color = req.Color
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryIDs []uint) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, categoryIDs)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.Repo.GetCategory(ctx, req.Category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid category", ErrValidation)
		}
		return nil, err
	}

	product := &models.Product{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           req.Image,
		Images:          req.Images,
		Brand:           req.Brand,
		Price:           req.Price,
		CategoryID:      req.Category,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.index(ctx, product)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.Repo.GetCategory(ctx, req.Category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid category", ErrValidation)
		}
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.RichDescription = req.RichDescription
	product.Image = req.Image
	product.Images = req.Images
	product.Brand = req.Brand
	product.Price = req.Price
	product.CategoryID = req.Category
	product.Category = nil
	product.CountInStock = req.CountInStock
	product.Rating = req.Rating
	product.NumReviews = req.NumReviews
	product.IsFeatured = req.IsFeatured

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.index(ctx, product)
	return product, nil
}

func (s *CatalogService) UpdateProductGallery(ctx context.Context, id uint, images []string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = images
	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.index(ctx, product)
	return product, nil
}

// SetProductImage records the public URL of an uploaded main image.
func (s *CatalogService) SetProductImage(ctx context.Context, id uint, url string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Image = url
	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.index(ctx, product)
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	if s.Indexer != nil {
		if err := s.Indexer.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search index delete failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	return s.Repo.CountProducts(ctx)
}

func (s *CatalogService) ListFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return s.Repo.ListFeaturedProducts(ctx, limit)
}

func (s *CatalogService) index(ctx context.Context, product *models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, product); err != nil {
		logging.FromContext(ctx).Warn("search index update failed", "product_id", product.ID, "error", err)
	}
}
