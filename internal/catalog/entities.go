// Package catalog declares the managed collections of the PetLove back
// office and wires each one into the generic collection engine.
package catalog

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=64"`
	Description string    `json:"description" validate:"max=255"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Color struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=64"`
	Value     string    `json:"value" validate:"required,csscolor"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type Brand struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=64"`
	Description string    `json:"description" validate:"max=255"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Measurement struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required,max=64"`
	Abbreviation string    `json:"abbreviation" validate:"max=10"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Size struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=32"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type Provider struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=128"`
	Document  string    `json:"document" validate:"doc10"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone" validate:"max=20"`
	Address   string    `json:"address" validate:"max=255"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=128"`
	Document  string    `json:"document" validate:"doc10"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone" validate:"max=20"`
	Address   string    `json:"address" validate:"max=255"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=128"`
	Description string    `json:"description" validate:"max=512"`
	Price       float64   `json:"price" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CategoryID  int64     `json:"categoryId"`
	BrandID     int64     `json:"brandId"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=128"`
	Email     string    `json:"email" validate:"required,email"`
	Role      string    `json:"role"`
	RoleID    int64     `json:"roleId"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=64"`
	Description string    `json:"description" validate:"max=255"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Purchase and Sale are append-only ledgers: they can be listed and created
// but never deleted or deactivated from the back office.
type Purchase struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number" validate:"required,max=32"`
	ProviderID int64     `json:"providerId" validate:"gt=0"`
	Total      float64   `json:"total" validate:"gte=0"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Sale struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number" validate:"required,max=32"`
	ClientID  int64     `json:"clientId" validate:"gt=0"`
	Total     float64   `json:"total" validate:"gte=0"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func statusLabel(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}
