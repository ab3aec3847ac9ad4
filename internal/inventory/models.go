package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a catalog record as returned by the item search and adjust endpoints.
type Item struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     Label           `json:"category"`
	Supplier     Label           `json:"supplier"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// Label is a display value for a related record. The backend may serialize
// relations as a plain string, a numeric id, or a nested object with a name.
type Label string

// UnmarshalJSON accepts strings, numbers, null and {"name": ...} objects.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	case len(data) > 0 && data[0] == '{':
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*l = Label(obj.Name)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("inventory: unsupported label value %s", data)
		}
		*l = Label(n.String())
		return nil
	}
}

// String returns the label, or "N/A" when the backend sent nothing.
func (l Label) String() string {
	if strings.TrimSpace(string(l)) == "" {
		return "N/A"
	}
	return string(l)
}

// LowStockReport is the body of GET /reports/low-stock/.
type LowStockReport struct {
	TotalLowStockItems int `json:"totalLowStockItems"`
}

// SalesReport is the body of GET /reports/sales/.
type SalesReport struct {
	NumberOfSales int             `json:"numberOfSales"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// UnmarshalJSON requires both figures; an absent or null field fails the
// decode instead of reading as zero sales.
func (r *SalesReport) UnmarshalJSON(data []byte) error {
	var raw struct {
		NumberOfSales *int             `json:"numberOfSales"`
		TotalRevenue  *decimal.Decimal `json:"totalRevenue"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.NumberOfSales == nil {
		return fmt.Errorf("sales report: missing numberOfSales")
	}
	if raw.TotalRevenue == nil {
		return fmt.Errorf("sales report: missing totalRevenue")
	}
	r.NumberOfSales = *raw.NumberOfSales
	r.TotalRevenue = *raw.TotalRevenue
	return nil
}

// Range selects the window of a sales report.
type Range string

// Sales report windows accepted by the backend.
const (
	RangeToday      Range = "today"
	RangeLast7Days  Range = "last7days"
	RangeLast30Days Range = "last30days"
)

// SummaryRanges are the windows of the sales summary, in display order.
var SummaryRanges = []Range{RangeToday, RangeLast7Days, RangeLast30Days}

type adjustRequest struct {
	QuantityChange int    `json:"quantity_change"`
	Description    string `json:"description"`
}
