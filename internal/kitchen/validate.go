package kitchen

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("table", func(fl validator.FieldLevel) bool {
		return validTable(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// rejection is the message given when any of its Field.tag failures occur
type rejection struct {
	msg string
	on  []string
}

var (
	updateItemStatusRejections = []rejection{
		{"orderId, itemId, and status are required", []string{"OrderID.required", "ItemID.required", "Status.required"}},
		{"status must be one of pending, preparing, ready, completed, sent", []string{"Status.oneof"}},
	}

	createOrderRejections = []rejection{
		{"pax and items are required", []string{"Pax.required", "Items.required", "Items.min"}},
		{"pax must be at least 1", []string{"Pax.min"}},
		{"table is required", []string{"Table.notblank"}},
		{"table must be an integer 1-10", []string{"Table.table"}},
		{"every item needs a foodId", []string{"FoodID.notblank"}},
		{"quantity must be at least 1", []string{"Quantity.min"}},
	}

	restockRejections = []rejection{
		{"Invalid item ID or quantity", []string{"ItemID.notblank", "Quantity.gt"}},
	}
)

// check validates req and reports the first rejection that matches a
// failure. Failures on the same rejection keep their field order.
func (s *Service) check(req any, rejections []rejection) error {
	err := s.validate.Struct(req)
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}

	for _, r := range rejections {
		for _, fe := range failures {
			key := fe.StructField() + "." + fe.Tag()
			for _, on := range r.on {
				if key == on {
					return invalid(r.msg)
				}
			}
		}
	}
	return invalid(failures[0].Error())
}
