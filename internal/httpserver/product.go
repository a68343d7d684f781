package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/nkropachev/eshop/internal/es"
	"github.com/nkropachev/eshop/internal/logging"
	"github.com/nkropachev/eshop/internal/mykafka"
	"github.com/nkropachev/eshop/internal/service"
	"github.com/nkropachev/eshop/internal/transport"
	"github.com/nkropachev/eshop/internal/uploads"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer mykafka.Publisher
	Storage  *uploads.Storage
	BaseURL  string

	// ES is optional; search answers 503 without it.
	ES      *elasticsearch.Client
	ESIndex string
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	categoryIDs := csvIDs(c.QueryParam("categories"))

	products, err := h.Svc.ListProducts(ctx, categoryIDs)
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "product_id", id, "error", err)
		return httpError(err, "cannot get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return httpError(err, "the product cannot be created")
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateProductRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		l.Warn("update_product_error", "product_id", id, "error", err)
		return httpError(err, "the product cannot be updated")
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	l.Info("update_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Warn("delete_product_error", "product_id", id, "error", err)
		return httpError(err, "the product cannot be deleted")
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, confirmation("the product is deleted"))
}

func (h *ProductHTTP) CountProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.count_products")

	n, err := h.Svc.CountProducts(ctx)
	if err != nil {
		l.Error("count_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count products")
	}
	return c.JSON(http.StatusOK, transport.ProductCountResponse{ProductCount: n})
}

func (h *ProductHTTP) ListFeatured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_featured")

	limit := parseIntDefault(c.Param("count"), 0)

	products, err := h.Svc.ListFeaturedProducts(ctx, limit)
	if err != nil {
		l.Error("list_featured_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list featured products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) UpdateGallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_gallery")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.GalleryImagesRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("update_gallery_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.Svc.UpdateProductGallery(ctx, id, req.Images)
	if err != nil {
		l.Warn("update_gallery_error", "product_id", id, "error", err)
		return httpError(err, "the gallery cannot be updated")
	}

	l.Info("update_gallery_success", "product_id", product.ID, "images", len(product.Images))
	return c.JSON(http.StatusOK, product)
}

// UploadImage stores a multipart image and records its public URL on the
// product.
func (h *ProductHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.upload_image")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		l.Warn("upload_image_error", "status", 400, "reason", "no image in the request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "no image in the request")
	}

	name, err := h.Storage.Save(fh)
	if err != nil {
		if errors.Is(err, uploads.ErrInvalidImageType) {
			l.Warn("upload_image_error", "status", 400, "reason", "invalid image type")
			return echo.NewHTTPError(http.StatusBadRequest, "invalid image type")
		}
		l.Error("upload_image_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
	}

	url := fmt.Sprintf("%s/public/uploads/%s", h.BaseURL, name)
	product, err := h.Svc.SetProductImage(ctx, id, url)
	if err != nil {
		l.Warn("upload_image_error", "product_id", id, "error", err)
		return httpError(err, "the product cannot be updated")
	}

	l.Info("upload_image_success", "product_id", product.ID, "image", url)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 10)
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	from := (page - 1) * size

	total, products, err := es.Search(ctx, h.ES, h.ESIndex, q, from, size)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
