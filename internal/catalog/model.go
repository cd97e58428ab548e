package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidProduct = errors.New("invalid product")

// Unit is how a product is sold. The zero value is not a valid unit.
type Unit int

const (
	UnitWeight Unit = iota + 1
	UnitCount
)

const (
	unitWeightText = "kg"
	unitCountText  = "unidade"
)

func ParseUnit(s string) (Unit, error) {
	switch strings.TrimSpace(s) {
	case unitWeightText:
		return UnitWeight, nil
	case unitCountText:
		return UnitCount, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidProduct, s)
	}
}

func (u Unit) Valid() bool {
	return u == UnitWeight || u == UnitCount
}

func (u Unit) String() string {
	switch u {
	case UnitWeight:
		return unitWeightText
	case UnitCount:
		return unitCountText
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Suffix is the quantity suffix used in order summaries: "kg" for weight, "x" for count.
func (u Unit) Suffix() string {
	if u == UnitWeight {
		return unitWeightText
	}
	return "x"
}

func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: unit %d", ErrInvalidProduct, int(u))
	}
	return []byte(u.String()), nil
}

func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Image is either a reference URL or an inline data URI.
type Image string

func (i Image) IsInline() bool {
	return strings.HasPrefix(string(i), "data:")
}

// DisplayURL returns the image to render for a product. Inline images are
// returned as-is; anything else falls back to a placeholder seeded by name.
func (i Image) DisplayURL(productName string, size int) string {
	if i.IsInline() {
		return string(i)
	}
	seed := strings.Replace(productName, " ", "", 1)
	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", seed, size, size)
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        Unit    `json:"unit"`
	Image       Image   `json:"image"`
}

// ProductInput is a product as submitted by the admin form, before an id is assigned.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        Unit    `json:"unit"`
	Image       Image   `json:"image"`
}

// MaxPrice bounds a product price.
const MaxPrice = 1_000_000

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidProduct)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if !(in.Price <= MaxPrice) {
		return fmt.Errorf("%w: price must not exceed %d", ErrInvalidProduct, MaxPrice)
	}
	if !in.Unit.Valid() {
		return fmt.Errorf("%w: unit is required", ErrInvalidProduct)
	}
	return nil
}

func (in ProductInput) WithID(id string) Product {
	return Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Unit:        in.Unit,
		Image:       in.Image,
	}
}

func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Unit:        p.Unit,
		Image:       p.Image,
	}
}

func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	return p.Input().Validate()
}
