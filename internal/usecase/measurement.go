package usecase

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"healthtrack/internal/domain/entity"

	"github.com/pkg/errors"
)

var (
	errNotNumber = errors.New("value is not a finite number")
	errNotDate   = errors.New("value is not a YYYY-MM-DD date")
)

// IsAbsent reports whether a raw JSON field was omitted or null.
func IsAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// IsEmptyString reports whether a raw JSON field is the empty string.
func IsEmptyString(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte(`""`))
}

// ParseNumber reads a JSON number or a numeric string such as "70.5".
// Booleans, objects, arrays, NaN and infinities are rejected.
func ParseNumber(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, errNotNumber
	}

	var text string
	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return 0, errNotNumber
		}
		text = strings.TrimSpace(text)
		if isGoLiteral(text) {
			return 0, errNotNumber
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(trimmed)
	default:
		return 0, errNotNumber
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errNotNumber
	}

	return value, nil
}

// isGoLiteral reports whether text relies on Go literal syntax that strconv.ParseFloat
// accepts but a plain decimal does not: a 0x prefix or digit separators.
func isGoLiteral(text string) bool {
	if strings.ContainsRune(text, '_') {
		return true
	}
	text = strings.TrimLeft(text, "+-")

	return len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

// ParseDate reads a JSON string holding a strict YYYY-MM-DD calendar date.
func ParseDate(raw json.RawMessage) (time.Time, error) {
	var text string
	if err := json.Unmarshal(bytes.TrimSpace(raw), &text); err != nil {
		return time.Time{}, errNotDate
	}
	if len(text) != len(entity.DateLayout) {
		return time.Time{}, errNotDate
	}

	date, err := entity.ParseDate(text)
	if err != nil {
		return time.Time{}, errNotDate
	}

	return date, nil
}
