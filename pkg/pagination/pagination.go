package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query parameter names.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// Page identifies one 1-based page of an ordered listing.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

// Offset calculates the number of records to skip based on page and page size.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// FromQuery parses page and page_size from URL query values. ok is false
// when neither parameter is present, meaning the caller asked for every
// record. A missing page defaults to 1, a missing page_size to
// cfg.DefaultPageSize, and page_size is capped at cfg.MaxPageSize.
func FromQuery(values url.Values, cfg Config) (page Page, ok bool, err error) {
	rawPage, rawSize := values.Get(ParamPage), values.Get(ParamPageSize)
	if rawPage == "" && rawSize == "" {
		return Page{}, false, nil
	}

	page = Page{Number: 1}
	if rawPage != "" {
		if page.Number, err = positive(ParamPage, rawPage); err != nil {
			return Page{}, false, err
		}
	}
	if rawSize != "" {
		if page.Size, err = positive(ParamPageSize, rawSize); err != nil {
			return Page{}, false, err
		}
	}
	page.Size = cfg.clamp(page.Size)
	return page, true, nil
}

func positive(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return n, nil
}
