package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DatetimeLayout is the stored purchase timestamp format. It sorts
// lexicographically in time order.
const DatetimeLayout = "2006-01-02 15:04:05"

type Purchase struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Datetime string  `json:"datetime"`
	Liters   float64 `json:"liters"`
	Price    float64 `json:"price"`
}

// Patch carries the fields an edit changes; nil fields keep their value.
type Patch struct {
	Name     *string  `json:"name,omitempty"`
	Datetime *string  `json:"datetime,omitempty"`
	Liters   *float64 `json:"liters,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

var (
	ErrInvalidPurchase = errors.New("invalid purchase")
	ErrNotFound        = errors.New("purchase not found")
	ErrNothingToExport = errors.New("no purchases to export")
)

func (p Purchase) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidPurchase)
	}
	if _, err := time.Parse(DatetimeLayout, p.Datetime); err != nil {
		return fmt.Errorf("%w: datetime must look like %s", ErrInvalidPurchase, DatetimeLayout)
	}
	if !(p.Liters > 0) {
		return fmt.Errorf("%w: liters must be positive", ErrInvalidPurchase)
	}
	if !(p.Price > 0) {
		return fmt.Errorf("%w: price must be positive", ErrInvalidPurchase)
	}
	return nil
}

func (p Purchase) apply(patch Patch) Purchase {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Datetime != nil {
		p.Datetime = *patch.Datetime
	}
	if patch.Liters != nil {
		p.Liters = *patch.Liters
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	return p
}
