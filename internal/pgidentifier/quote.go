package pgidentifier

import "github.com/lib/pq"

// QuoteIdentifier wraps the identifier in double quotes, doubling any embedded double quotes.
func QuoteIdentifier(identifier string) string {
	return pq.QuoteIdentifier(identifier)
}

// QuoteLiteral returns the value as a SQL string literal.
func QuoteLiteral(value string) string {
	return pq.QuoteLiteral(value)
}

// Qualify builds the quoted, schema-qualified name of an object, e.g., "schema"."name". The schema is omitted if
// it is empty. If the name is empty, only the quoted schema is returned, which is how schemas themselves are named.
func Qualify(schema, name string) string {
	switch {
	case schema == "":
		return QuoteIdentifier(name)
	case name == "":
		return QuoteIdentifier(schema)
	default:
		return QuoteIdentifier(schema) + "." + QuoteIdentifier(name)
	}
}

// QualifyWithTable builds the name of a table-scoped object, e.g., "schema"."table"."name".
func QualifyWithTable(schema, table, name string) string {
	return Qualify(schema, table) + "." + QuoteIdentifier(name)
}

// QualifyWithArgs builds the name of a routine, e.g., "schema"."name"(integer, text). The arguments are the
// identity arguments reported by the catalog and are included verbatim.
func QualifyWithArgs(schema, name, identityArgs string) string {
	return Qualify(schema, name) + "(" + identityArgs + ")"
}
