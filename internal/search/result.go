package search

import (
	"encoding/json"
	"fmt"
)

// Hit is one entry of a remote search response. Field names follow the
// upstream service.
type Hit struct {
	Titel     string `json:"titel"`
	Preis     string `json:"preis"`
	Foto      string `json:"foto"`
	Kategorie string `json:"kategorie,omitempty"`

	Datum   string `json:"datum,omitempty"`
	Zustand string `json:"zustand,omitempty"`
	EbayNr  string `json:"ebay_nr,omitempty"`
}

// Category decodes from either "Lighting" or {"Kategorie": "Lighting"}.
type Category string

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Category(s)
		return nil
	}

	var obj struct {
		Kategorie string `json:"Kategorie"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	*c = Category(obj.Kategorie)
	return nil
}

type Result struct {
	Items      []Hit      `json:"items"`
	Categories []Category `json:"categories"`
}

func EmptyResult() Result {
	return Result{Items: []Hit{}, Categories: []Category{}}
}

func (r Result) normalized() Result {
	if r.Items == nil {
		r.Items = []Hit{}
	}
	if r.Categories == nil {
		r.Categories = []Category{}
	}
	return r
}
