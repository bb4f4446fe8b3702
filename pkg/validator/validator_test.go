package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type item struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	Price     decimal.Decimal `json:"unit_price" validate:"dec_gte=0"`
}

type order struct {
	Type  string `json:"type" validate:"required,oneof=sale purchase"`
	Items []item `json:"line_items" validate:"required,min=1,dive"`
}

func TestValidateStruct(t *testing.T) {
	valid := order{Type: "sale", Items: []item{{ProductID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(5)}}}
	assert.Empty(t, ValidateStruct(&valid))
	assert.Equal(t, "", FirstError(&valid))

	t.Run("enum", func(t *testing.T) {
		o := valid
		o.Type = "refund"
		assert.Equal(t, "type must be one of: sale, purchase", FirstError(&o))
	})

	t.Run("nested field names use json tags", func(t *testing.T) {
		o := valid
		o.Items = []item{{ProductID: uuid.New(), Quantity: 0, Price: decimal.Zero}}
		errs := ValidateStruct(&o)
		if assert.Len(t, errs, 1) {
			assert.Equal(t, "line_items[0].quantity", errs[0].FailedField)
			assert.Equal(t, "min", errs[0].Tag)
		}
	})

	t.Run("negative decimal", func(t *testing.T) {
		o := valid
		o.Items = []item{{ProductID: uuid.New(), Quantity: 2, Price: decimal.NewFromFloat(-0.01)}}
		assert.Equal(t, "line_items[0].unit_price cannot be less than 0", FirstError(&o))
	})

	t.Run("nil uuid", func(t *testing.T) {
		o := valid
		o.Items = []item{{Quantity: 2, Price: decimal.Zero}}
		assert.Equal(t, "line_items[0].product_id is required", FirstError(&o))
	})
}
