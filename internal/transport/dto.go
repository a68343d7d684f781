package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

// BindStrict decodes a JSON body into a typed request and rejects unknown
// fields, so nothing reaches the services or storage uninspected.
func BindStrict(c echo.Context, v any) error {
	req := c.Request()
	if req.Body == nil {
		return errors.New("empty body")
	}
	ct := req.Header.Get(echo.HeaderContentType)
	if ct != "" && !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		return fmt.Errorf("unsupported content type %q", ct)
	}
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}

type CartEntry struct {
	Product  uint `json:"product"`
	Quantity uint `json:"quantity"`
}

type CreateOrderRequest struct {
	OrderItems       []CartEntry `json:"orderItems"`
	ShippingAddress1 string      `json:"shippingAddress1"`
	ShippingAddress2 string      `json:"shippingAddress2"`
	City             string      `json:"city"`
	Zip              string      `json:"zip"`
	Country          string      `json:"country"`
	Phone            string      `json:"phone"`
	Status           string      `json:"status"`
	User             uint        `json:"user"`
}

func (r CreateOrderRequest) Validate() error {
	if len(r.OrderItems) == 0 {
		return errors.New("orderItems required")
	}
	for i, it := range r.OrderItems {
		if it.Product == 0 {
			return fmt.Errorf("orderItems[%d]: product required", i)
		}
		if it.Quantity == 0 {
			return fmt.Errorf("orderItems[%d]: quantity must be > 0", i)
		}
	}
	if r.ShippingAddress1 == "" {
		return errors.New("shippingAddress1 required")
	}
	if r.User == 0 {
		return errors.New("user required")
	}
	return nil
}

type UpdateOrderRequest struct {
	Status string `json:"status"`
}

func (r UpdateOrderRequest) Validate() error {
	if r.Status == "" {
		return errors.New("status required")
	}
	return nil
}

type CreateProductRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RichDescription string   `json:"richDescription"`
	Image           string   `json:"image"`
	Brand           string   `json:"brand"`
	Price           float64  `json:"price"`
	Category        uint     `json:"category"`
	CountInStock    uint     `json:"countInStock"`
	Rating          float64  `json:"rating"`
	NumReviews      uint     `json:"numReviews"`
	IsFeatured      bool     `json:"isFeatured"`
	Images          []string `json:"images"`
}

func (r CreateProductRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name required")
	}
	if r.Description == "" {
		return errors.New("description required")
	}
	if r.Price < 0 {
		return errors.New("price must be >= 0")
	}
	if r.Category == 0 {
		return errors.New("category required")
	}
	return nil
}

type UpdateProductRequest = CreateProductRequest

type GalleryImagesRequest struct {
	Images []string `json:"images"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (r CategoryRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name required")
	}
	return nil
}

type CreateUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (r CreateUserRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name required")
	}
	if r.Email == "" {
		return errors.New("email required")
	}
	if r.Password == "" {
		return errors.New("password required")
	}
	return nil
}

// UpdateUserRequest carries the same fields but an empty password keeps
// the existing hash.
type UpdateUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email required")
	}
	if r.Password == "" {
		return errors.New("password required")
	}
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	if r.RefreshToken == "" {
		return errors.New("refreshToken required")
	}
	return nil
}

type LoginResponse struct {
	User         string `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type ConfirmationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type TotalSalesResponse struct {
	TotalSales float64 `json:"totalsales"`
}

type OrderCountResponse struct {
	OrderCount int64 `json:"orderCount"`
}

type ProductCountResponse struct {
	ProductCount int64 `json:"productCount"`
}

type UserCountResponse struct {
	UserCount int64 `json:"userCount"`
}
