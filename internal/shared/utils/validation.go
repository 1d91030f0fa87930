package utils

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// NotNilUUID rejects the zero UUID. A nil *uuid.UUID is left to other rules.
// uuid.UUID is a driver.Valuer, so ozzo may hand the rule its string form.
func NotNilUUID(field string) validation.RuleFunc {
	return func(value interface{}) error {
		var id uuid.UUID
		switch v := value.(type) {
		case uuid.UUID:
			id = v
		case *uuid.UUID:
			if v == nil {
				return nil
			}
			id = *v
		case string:
			if v != uuid.Nil.String() {
				return nil
			}
		default:
			return nil
		}

		if id == uuid.Nil {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// IntValue dereferences value and reports whether it holds an int
func IntValue(value interface{}) (int, bool) {
	v, isNil := validation.Indirect(value)
	if isNil {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}
