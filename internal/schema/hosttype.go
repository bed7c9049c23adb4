package schema

import "strings"

// HostTypeMapper maps a catalog type name to the name of the type a client would hold it in.
type HostTypeMapper func(dbType string) string

var defaultHostTypes = map[string]string{
	"bigint":                      "int64",
	"bigserial":                   "int64",
	"boolean":                     "bool",
	"bytea":                       "[]byte",
	"character":                   "string",
	"character varying":           "string",
	"date":                        "time.Time",
	"double precision":            "float64",
	"integer":                     "int32",
	"json":                        "[]byte",
	"jsonb":                       "[]byte",
	"numeric":                     "string",
	"real":                        "float32",
	"serial":                      "int32",
	"smallint":                    "int16",
	"smallserial":                 "int16",
	"text":                        "string",
	"time with time zone":         "time.Time",
	"time without time zone":      "time.Time",
	"timestamp with time zone":    "time.Time",
	"timestamp without time zone": "time.Time",
	"uuid":                        "string",
}

// DefaultHostTypeMapper maps the built-in scalar types to Go types. Arrays map to slices of their element type.
// Anything else, e.g., enums and composite types, maps to the empty string.
func DefaultHostTypeMapper(dbType string) string {
	if elem, ok := strings.CutSuffix(dbType, "[]"); ok {
		if mapped := DefaultHostTypeMapper(elem); mapped != "" {
			return "[]" + mapped
		}
		return ""
	}
	return defaultHostTypes[dbType]
}
