package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a list of strings as a JSON text column so the same
// model runs on postgres and sqlite.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringSlice) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for StringSlice", src)
	}
}

type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Product struct {
	ID              uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string      `gorm:"not null"                 json:"name"`
	Description     string      `gorm:"not null"                 json:"description"`
	RichDescription string      `json:"richDescription"`
	Image           string      `json:"image"`
	Images          StringSlice `gorm:"type:text"                json:"images"`
	Brand           string      `json:"brand"`
	Price           float64     `gorm:"not null;check:price >= 0" json:"price"`
	CategoryID      uint        `gorm:"index;not null"           json:"categoryId"`
	Category        *Category   `json:"category,omitempty"`
	CountInStock    uint        `gorm:"not null"                 json:"countInStock"`
	Rating          float64     `json:"rating"`
	NumReviews      uint        `json:"numReviews"`
	IsFeatured      bool        `gorm:"index"                    json:"isFeatured"`
	DateCreated     time.Time   `gorm:"autoCreateTime"           json:"dateCreated"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"      json:"id"`
	OrderID   uint     `gorm:"index;not null"                json:"orderId"`
	ProductID uint     `gorm:"not null"                      json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Quantity  uint     `gorm:"not null;check:quantity > 0"   json:"quantity"`
}

type Order struct {
	ID               uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Items            []OrderItem `gorm:"foreignKey:OrderID"       json:"orderItems"`
	ShippingAddress1 string      `gorm:"not null"                 json:"shippingAddress1"`
	ShippingAddress2 string      `json:"shippingAddress2"`
	City             string      `json:"city"`
	Zip              string      `json:"zip"`
	Country          string      `json:"country"`
	Phone            string      `json:"phone"`
	Status           string      `gorm:"not null;default:Pending" json:"status"`
	TotalPrice       float64     `gorm:"not null"                 json:"totalPrice"`
	UserID           uint        `gorm:"index;not null"           json:"userId"`
	User             *User       `json:"user,omitempty"`
	DateOrdered      time.Time   `gorm:"autoCreateTime;index"     json:"dateOrdered"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Phone        string `json:"phone"`
	IsAdmin      bool   `json:"isAdmin"`
	Street       string `json:"street"`
	Apartment    string `json:"apartment"`
	Zip          string `json:"zip"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"index;not null"  json:"userId"`
	ExpiresAt time.Time `gorm:"not null"        json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
}

// All is the migration set, in dependency order.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&User{},
		&RefreshToken{},
		&Order{},
		&OrderItem{},
	}
}
