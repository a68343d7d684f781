package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkropachev/eshop/internal/logging"
	"github.com/nkropachev/eshop/internal/mykafka"
	"github.com/nkropachev/eshop/internal/service"
	"github.com/nkropachev/eshop/internal/transport"
)

type UserHTTP struct {
	Svc      *service.UserService
	Producer mykafka.Publisher
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("list_users_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		l.Warn("get_user_error", "user_id", id, "error", err)
		return httpError(err, "cannot get user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create_user")

	var req transport.CreateUserRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("create_user_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Svc.CreateUser(ctx, req)
	if err != nil {
		l.Warn("create_user_error", "error", err)
		return httpError(err, "the user cannot be created")
	}

	l.Info("create_user_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("update_user_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Svc.UpdateUser(ctx, id, req)
	if err != nil {
		l.Warn("update_user_error", "user_id", id, "error", err)
		return httpError(err, "the user cannot be updated")
	}

	l.Info("update_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		l.Warn("delete_user_error", "user_id", id, "error", err)
		return httpError(err, "the user cannot be deleted")
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(id), map[string]any{
		"type":   "user_deleted",
		"userID": id,
	})

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, confirmation("the user is deleted"))
}

func (h *UserHTTP) CountUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.count_users")

	n, err := h.Svc.CountUsers(ctx)
	if err != nil {
		l.Error("count_users_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count users")
	}
	return c.JSON(http.StatusOK, transport.UserCountResponse{UserCount: n})
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		l.Warn("login_error", "error", err)
		return httpError(err, "login failed")
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		User:         res.User.Email,
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
	})
}

func (h *UserHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.refresh")

	var req transport.RefreshRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("refresh_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		l.Warn("refresh_error", "error", err)
		return httpError(err, "cannot refresh session")
	}

	l.Info("refresh_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		User:         res.User.Email,
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
	})
}

func (h *UserHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.logout")

	var req transport.RefreshRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("logout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		l.Warn("logout_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log out")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, confirmation("logged out"))
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.CreateUserRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Warn("register_error", "error", err)
		return httpError(err, "the user cannot be created")
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}
