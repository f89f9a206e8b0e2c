package utils

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/table-order/models"
)

// EncodeOrderToken turns a numeric order ID into the opaque token embedded in
// the table link handed to customers.
func EncodeOrderToken(orderID uint) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(orderID), 10)))
}

// DecodeOrderToken reverses EncodeOrderToken. A token that does not decode, or
// decodes to something empty, is a NotFound condition rather than a crash.
func DecodeOrderToken(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", models.NewNotFoundError("Not found restaurant table")
	}
	decoded := strings.TrimSpace(string(raw))
	if decoded == "" {
		return "", models.NewNotFoundError("Not found restaurant table")
	}
	return decoded, nil
}

// ParseOrderID parses a decoded token into a record ID. A non-numeric value
// simply means no such order.
func ParseOrderID(decoded string) (uint, bool) {
	id, err := strconv.ParseUint(decoded, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ToISOString normalizes a timestamp to its canonical ISO-8601 form before it
// crosses into presentation code.
func ToISOString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatDisplayTime renders an ISO timestamp the way the order page shows it.
// Unparseable input is returned unchanged.
func FormatDisplayTime(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// FormatRequestNumber renders the human-readable request number, e.g. "#003".
func FormatRequestNumber(n uint) string {
	return fmt.Sprintf("#%03d", n)
}

// QueryString builds a URL query string from a flat map, skipping nil and
// empty values. Slices append one pair per element; dates collapse to the
// date portion only.
func QueryString(params map[string]interface{}) string {
	values := url.Values{}

	for key, value := range params {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			values.Add(key, v)
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		case time.Time:
			values.Add(key, v.UTC().Format("2006-01-02"))
		default:
			values.Add(key, fmt.Sprintf("%v", v))
		}
	}

	return values.Encode()
}
