package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod represents how an invoice was paid
type PaymentMethod int

const (
	PaymentMethodCash   PaymentMethod = 0
	PaymentMethodOnline PaymentMethod = 1
)

func (p PaymentMethod) String() string {
	switch p {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the value is a known payment method
func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodCash || p == PaymentMethodOnline
}

// ParsePaymentMethod converts a display name into its PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "Cash":
		return PaymentMethodCash, nil
	case "Online":
		return PaymentMethodOnline, nil
	default:
		return 0, fmt.Errorf("unknown payment method: %q", s)
	}
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentMethod(i)
		return nil
	}
	switch str {
	case "Cash":
		*p = PaymentMethodCash
	case "Online":
		*p = PaymentMethodOnline
	default:
		return fmt.Errorf("unknown payment method: %q", str)
	}
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentMethod(v)
	case int:
		*p = PaymentMethod(v)
	}
	return nil
}
