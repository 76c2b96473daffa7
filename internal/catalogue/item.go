package catalogue

import (
	"errors"
	"strings"
)

// ModelNumber identifies an item. Update matches on exact equality; add does
// not enforce uniqueness.
type ModelNumber string

type Item struct {
	ProductName  string      `json:"productName"`
	ModelNumber  ModelNumber `json:"modelNumber"`
	Manufacturer string      `json:"manufacturer"`
	EAN          string      `json:"ean"`
	Photo        string      `json:"photo,omitempty"`
}

var ErrMissingField = errors.New("required field missing")

type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingField.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool { return target == ErrMissingField }

// Validate is the add-form check: every field except photo must be non-blank.
func (it Item) Validate() error {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"productName", it.ProductName},
		{"modelNumber", string(it.ModelNumber)},
		{"manufacturer", it.Manufacturer},
		{"ean", it.EAN},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
