package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InvoiceType represents how an order is served
type InvoiceType int

const (
	InvoiceTypeDineIn   InvoiceType = 0
	InvoiceTypeTakeaway InvoiceType = 1
)

func (t InvoiceType) String() string {
	switch t {
	case InvoiceTypeDineIn:
		return "Dine In"
	case InvoiceTypeTakeaway:
		return "Takeaway"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the value is a known invoice type
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeDineIn || t == InvoiceTypeTakeaway
}

// ParseInvoiceType converts a display name into its InvoiceType
func ParseInvoiceType(s string) (InvoiceType, error) {
	switch s {
	case "Dine In":
		return InvoiceTypeDineIn, nil
	case "Takeaway":
		return InvoiceTypeTakeaway, nil
	default:
		return 0, fmt.Errorf("unknown invoice type: %q", s)
	}
}

func (t InvoiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InvoiceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = InvoiceType(i)
		return nil
	}
	switch str {
	case "Dine In":
		*t = InvoiceTypeDineIn
	case "Takeaway":
		*t = InvoiceTypeTakeaway
	default:
		return fmt.Errorf("unknown invoice type: %q", str)
	}
	return nil
}

func (t InvoiceType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *InvoiceType) Scan(value interface{}) error {
	if value == nil {
		*t = InvoiceTypeDineIn
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = InvoiceType(v)
	case int:
		*t = InvoiceType(v)
	}
	return nil
}
