package form

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/JaimeStill/crud-generator/pkg/model"
)

// Option configures forms built by New and NewEdit.
type Option func(*options)

type options struct {
	csrf       bool
	sanitizer  Sanitizer
	columns    []string
	validators map[string][]Validator
}

// WithoutCSRF disables the CSRF token check.
func WithoutCSRF() Option {
	return func(o *options) { o.csrf = false }
}

// WithSanitizer strips markup from text columns before validation.
func WithSanitizer(s Sanitizer) Option {
	return func(o *options) { o.sanitizer = s }
}

// WithColumns restricts the form to the named columns, in the given order.
// Unknown names are ignored.
func WithColumns(names ...string) Option {
	return func(o *options) { o.columns = names }
}

// WithValidator adds a validator for one column, run after the defaults.
func WithValidator(column string, v Validator) Option {
	return func(o *options) {
		o.validators[column] = append(o.validators[column], v)
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		csrf:       true,
		validators: make(map[string][]Validator),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) fieldsFor(def model.Definition) []model.Column {
	if len(o.columns) == 0 {
		return def.EditableColumns()
	}
	cols := make([]model.Column, 0, len(o.columns))
	for _, name := range o.columns {
		if c, ok := def.Column(name); ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// New returns a Factory producing forms for every non-key column of def.
func New(def model.Definition, opts ...Option) Factory {
	o := newOptions(opts)
	cols := o.fieldsFor(def)
	return func(w http.ResponseWriter, r *http.Request) Form {
		return newSchemaForm(cols, o, w, r, nil)
	}
}

// NewEdit returns an EditFactory whose forms start from the record's values.
func NewEdit(def model.Definition, opts ...Option) EditFactory {
	o := newOptions(opts)
	cols := o.fieldsFor(def)
	return func(w http.ResponseWriter, r *http.Request, rec model.Record) Form {
		return newSchemaForm(cols, o, w, r, rec)
	}
}

type schemaForm struct {
	columns []model.Column
	opts    *options
	token   string
	values  map[string]string
	errors  map[string][]string
}

func newSchemaForm(cols []model.Column, o *options, w http.ResponseWriter, r *http.Request, rec model.Record) *schemaForm {
	f := &schemaForm{
		columns: cols,
		opts:    o,
		values:  make(map[string]string, len(cols)),
		errors:  make(map[string][]string),
	}
	if o.csrf {
		f.token = csrfToken(w, r)
	}
	for _, c := range cols {
		f.values[c.Name] = FormatValue(rec[c.Name])
	}
	return f
}

func (f *schemaForm) ValidateOnSubmit(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	if err := r.ParseForm(); err != nil {
		f.addError("form", "The submission could not be read.")
		return false
	}

	for _, c := range f.columns {
		v := r.PostForm.Get(c.Name)
		if f.opts.sanitizer != nil && c.Type == model.TypeText {
			v = f.opts.sanitizer.Sanitize(v)
		}
		f.values[c.Name] = v

		validators := append(slices.Clone(defaultValidators), f.opts.validators[c.Name]...)
		for _, validate := range validators {
			if msg := validate(c, v); msg != "" {
				f.addError(c.Name, msg)
			}
		}
	}

	if f.opts.csrf && !validToken(f.token, r.PostForm.Get(CSRFField)) {
		f.addError(CSRFField, "The form expired or was tampered with. Please try again.")
	}

	return len(f.errors) == 0
}

func (f *schemaForm) addError(field, msg string) {
	f.errors[field] = append(f.errors[field], msg)
}

func (f *schemaForm) Data() map[string]string {
	data := maps.Clone(f.values)
	if f.opts.csrf {
		data[CSRFField] = f.token
	}
	return data
}

func (f *schemaForm) Errors() map[string][]string {
	return f.errors
}

func (f *schemaForm) Fields() []Field {
	fields := make([]Field, 0, len(f.columns))
	for _, c := range f.columns {
		fields = append(fields, Field{
			Name:      c.Name,
			Label:     c.Label(),
			Input:     InputType(c.Type),
			Value:     f.values[c.Name],
			Required:  c.Required,
			MaxLength: c.MaxLength,
			Errors:    f.errors[c.Name],
		})
	}
	return fields
}

func (f *schemaForm) CSRFToken() string {
	return f.token
}

// FormatValue renders a record value as form text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// Values converts bound form data into typed column values, dropping the
// CSRF token. Blank values become nil for every type except text and
// boolean; names that are not columns are passed through untouched so
// record construction can reject them.
func Values(def model.Definition, data map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(data))
	for name, raw := range data {
		if name == CSRFField {
			continue
		}
		col, ok := def.Column(name)
		if !ok {
			out[name] = raw
			continue
		}
		if raw == "" && col.Type != model.TypeText && col.Type != model.TypeBoolean {
			out[name] = nil
			continue
		}
		v, err := col.Parse(raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
