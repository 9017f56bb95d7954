package pagination_test

import (
	"net/url"
	"testing"

	"github.com/JaimeStill/crud-generator/pkg/pagination"
)

func TestFromQuery(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 50}

	tests := []struct {
		name    string
		query   string
		want    pagination.Page
		wantOK  bool
		wantErr bool
	}{
		{name: "absent", query: "", wantOK: false},
		{name: "unrelated params", query: "q=dune&sort=title", wantOK: false},
		{name: "page only", query: "page=3", want: pagination.Page{Number: 3, Size: 20}, wantOK: true},
		{name: "size only", query: "page_size=5", want: pagination.Page{Number: 1, Size: 5}, wantOK: true},
		{name: "size capped", query: "page=2&page_size=500", want: pagination.Page{Number: 2, Size: 50}, wantOK: true},
		{name: "zero page", query: "page=0", wantErr: true},
		{name: "negative size", query: "page_size=-1", wantErr: true},
		{name: "not a number", query: "page=two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			got, ok, err := pagination.FromQuery(values, cfg)

			if (err != nil) != tt.wantErr {
				t.Fatalf("FromQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Errorf("FromQuery() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("FromQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPage_Offset(t *testing.T) {
	if got := (pagination.Page{Number: 3, Size: 10}).Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
}

var testEnv = &pagination.ConfigEnv{
	DefaultPageSize: "TEST_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "TEST_PAGINATION_MAX_PAGE_SIZE",
}

func TestConfig_Finalize(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 {
		t.Errorf("defaults = %+v, want 20/100", cfg)
	}

	bad := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize() accepted default_page_size above max_page_size")
	}
}

func TestConfig_FinalizeEnv(t *testing.T) {
	t.Setenv(testEnv.DefaultPageSize, "5")
	t.Setenv(testEnv.MaxPageSize, "10")

	cfg := pagination.Config{DefaultPageSize: 50, MaxPageSize: 500}
	if err := cfg.Finalize(testEnv); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.DefaultPageSize != 5 || cfg.MaxPageSize != 10 {
		t.Errorf("env overrides = %+v, want 5/10", cfg)
	}

	t.Setenv(testEnv.MaxPageSize, "lots")
	if err := (&pagination.Config{}).Finalize(testEnv); err == nil {
		t.Error("Finalize() accepted a non-integer page size")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	cfg.Merge(&pagination.Config{MaxPageSize: 250})

	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 250 {
		t.Errorf("Merge() = %+v", cfg)
	}
}
