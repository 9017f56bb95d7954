package crud

import (
	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/openapi"
	"github.com/JaimeStill/crud-generator/pkg/pagination"
)

// operations holds the OpenAPI operations of one generated API group.
type operations struct {
	List   *openapi.Operation
	Get    *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
}

func inputSchemaName(def model.Definition) string {
	return def.Name + "Input"
}

func newOperations(def model.Definition, group string, paged bool) operations {
	pk := def.PrimaryKey()
	idParam := openapi.PathParam("id", def.Name+" "+pk.Name, columnSchema(pk))

	list := []*openapi.Parameter{
		openapi.QueryParam(paramSearch, "string", "Case-insensitive substring match across text columns", false),
		openapi.QueryParam(paramSort, "string", "Column to sort by (default: "+pk.Name+")", false),
		openapi.QueryParam(paramOrder, "string", "Sort direction: asc or desc", false),
	}
	if paged {
		list = append(list,
			openapi.QueryParam(pagination.ParamPage, "integer", "1-based page number; enables paging", false),
			openapi.QueryParam(pagination.ParamPageSize, "integer", "Records per page; enables paging", false),
		)
	}
	for _, c := range def.Columns {
		if reserved(c.Name) {
			continue
		}
		p := openapi.QueryParam(c.Name, "", "Only records whose "+c.Name+" equals this value", false)
		p.Schema = columnSchema(c)
		list = append(list, p)
	}

	return operations{
		List: &openapi.Operation{
			OperationID: "list_" + group,
			Summary:     "List " + def.Name + " records",
			Parameters:  list,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSONArray(def.Name+" records", def.Name),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Get: &openapi.Operation{
			OperationID: "get_" + group,
			Summary:     "Get " + def.Name + " by " + pk.Name,
			Parameters:  []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON(def.Name+" record", def.Name),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Create: &openapi.Operation{
			OperationID: "create_" + group,
			Summary:     "Create " + def.Name,
			RequestBody: openapi.RequestBodyJSON(inputSchemaName(def), true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON(def.Name+" created", def.Name),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Update: &openapi.Operation{
			OperationID: "update_" + group,
			Summary:     "Update " + def.Name,
			Description: "Overwrites only the fields present in the body",
			Parameters:  []*openapi.Parameter{idParam},
			RequestBody: openapi.RequestBodyJSON(inputSchemaName(def), true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON(def.Name+" updated", def.Name),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
		Delete: &openapi.Operation{
			OperationID: "delete_" + group,
			Summary:     "Delete " + def.Name,
			Parameters:  []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				204: {Description: def.Name + " deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

// schemas describes a stored record and the body accepted by create and
// update. The input schema requires nothing since updates are partial.
func schemas(def model.Definition) map[string]*openapi.Schema {
	closed := false

	record := &openapi.Schema{
		Type:       "object",
		Properties: make(map[string]*openapi.Property, len(def.Columns)),
	}
	input := &openapi.Schema{
		Type:                 "object",
		Properties:           make(map[string]*openapi.Property, len(def.Columns)),
		AdditionalProperties: &closed,
	}

	for _, c := range def.Columns {
		record.Properties[c.Name] = columnProperty(c)
		if c.PrimaryKey || c.Required {
			record.Required = append(record.Required, c.Name)
		}
		p := columnProperty(c)
		if c.PrimaryKey {
			p.ReadOnly = false
			p.Nullable = false
			p.Description = "Optional explicit key; generated when omitted"
		}
		input.Properties[c.Name] = p
	}

	return map[string]*openapi.Schema{
		def.Name:             record,
		inputSchemaName(def): input,
	}
}

func columnTypeFormat(t model.ColumnType) (string, string) {
	switch t {
	case model.TypeInteger:
		return "integer", "int64"
	case model.TypeFloat:
		return "number", "double"
	case model.TypeBoolean:
		return "boolean", ""
	case model.TypeUUID:
		return "string", "uuid"
	case model.TypeTimestamp:
		return "string", "date-time"
	default:
		return "string", ""
	}
}

func columnSchema(c model.Column) *openapi.Schema {
	typ, format := columnTypeFormat(c.Type)
	return &openapi.Schema{Type: typ, Format: format}
}

func columnProperty(c model.Column) *openapi.Property {
	typ, format := columnTypeFormat(c.Type)
	p := &openapi.Property{
		Type:        typ,
		Format:      format,
		Description: c.Label(),
		ReadOnly:    c.PrimaryKey,
		Nullable:    !c.PrimaryKey && !c.Required,
	}
	if c.MaxLength > 0 {
		n := c.MaxLength
		p.MaxLength = &n
	}
	return p
}
