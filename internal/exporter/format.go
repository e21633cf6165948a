package exporter

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date form written to CSV cells
const DateLayout = "2006-01-02"

// formatFloat writes at most six decimals and drops trailing zeros, so 59.5
// stays 59.5 and 62.000000 becomes 62
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatCell renders one view cell as CSV text. Undefined values are empty.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *float64:
		if val == nil {
			return ""
		}
		return formatFloat(*val)
	case float64:
		return formatFloat(val)
	case int:
		return formatInt(int64(val))
	case int64:
		return formatInt(val)
	case bool:
		return formatBool(val)
	case time.Time:
		return val.Format(DateLayout)
	case string:
		return val
	default:
		return ""
	}
}

// cellValue unwraps a view cell for a typed spreadsheet write
func cellValue(v interface{}) interface{} {
	if p, ok := v.(*float64); ok {
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
