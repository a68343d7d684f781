package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkropachev/eshop/internal/logging"
	"github.com/nkropachev/eshop/internal/service"
	"github.com/nkropachev/eshop/internal/transport"
)

type CategoryHTTP struct {
	Svc *service.CatalogService
}

func (h *CategoryHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list_categories")

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		l.Error("list_categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_category")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		l.Warn("get_category_error", "category_id", id, "error", err)
		return httpError(err, "cannot get category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CategoryRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("create_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		l.Warn("create_category_error", "error", err)
		return httpError(err, "the category cannot be created")
	}

	l.Info("create_category_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update_category")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.CategoryRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("update_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		l.Warn("update_category_error", "category_id", id, "error", err)
		return httpError(err, "the category cannot be updated")
	}

	l.Info("update_category_success", "category_id", category.ID)
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		l.Warn("delete_category_error", "category_id", id, "error", err)
		return httpError(err, "the category cannot be deleted")
	}

	l.Info("delete_category_success", "category_id", id)
	return c.JSON(http.StatusOK, confirmation("the category is deleted"))
}
