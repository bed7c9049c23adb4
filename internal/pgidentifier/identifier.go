package pgidentifier

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// SimpleIdentifierRegex matches identifiers Postgres accepts unquoted, e.g., temp database prefixes.
var SimpleIdentifierRegex = regexp.MustCompile("^[a-z_][a-z0-9_$]*$")

func IsSimpleIdentifier(val string) bool {
	return SimpleIdentifierRegex.MatchString(val)
}

// identifierAlphabet only holds characters valid in an unquoted identifier after its first character.
const identifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789$_"

var identifierEncoding = base64.NewEncoding(identifierAlphabet).WithPadding(base64.NoPadding)

// RandomUUID returns a random UUID encoded in 22 identifier-safe characters. It may start with a digit, so it must be
// appended to a prefix to form an identifier.
func RandomUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating uuid: %w", err)
	}
	raw, err := id.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("marshaling uuid: %w", err)
	}
	return identifierEncoding.EncodeToString(raw), nil
}
