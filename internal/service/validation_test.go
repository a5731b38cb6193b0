package service

import (
	"strings"
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func validInput() AddProductInput {
	return AddProductInput{
		Name:     "Widget",
		Price:    int64Ptr(150),
		Stock:    intPtr(10),
		Image:    "https://img.example/widget.png",
		Category: "Tools",
	}
}

// Property 1: Stock outside (0, 100] is rejected with InvalidStock
func TestProperty_StockRangeIsEnforced(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stock is accepted only within 1..100", prop.ForAll(
		func(stock int) bool {
			in := validInput()
			in.Stock = intPtr(stock)

			err := validateProduct(in)
			if stock > 0 && stock <= 100 {
				return err == nil
			}
			return err != nil && KindOf(err) == KindInvalidStock
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property 2: Price must exceed the minimum
func TestProperty_PriceThresholdIsEnforced(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("price is accepted only above 100", prop.ForAll(
		func(price int64) bool {
			in := validInput()
			in.Price = int64Ptr(price)

			err := validateProduct(in)
			if price > 100 {
				return err == nil
			}
			return err != nil && KindOf(err) == KindInvalidPrice
		},
		gen.Int64Range(-500, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValidateProduct_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AddProductInput)
		kind    Kind
		message string
	}{
		{"zero stock", func(in *AddProductInput) { in.Stock = intPtr(0) }, KindInvalidStock, MsgStockTooLow},
		{"negative stock", func(in *AddProductInput) { in.Stock = intPtr(-3) }, KindInvalidStock, MsgStockTooLow},
		{"stock above limit", func(in *AddProductInput) { in.Stock = intPtr(101) }, KindInvalidStock, MsgStockTooHigh},
		{"price at threshold", func(in *AddProductInput) { in.Price = int64Ptr(100) }, KindInvalidPrice, MsgPriceTooLow},
		{"stock checked before price", func(in *AddProductInput) {
			in.Stock = intPtr(0)
			in.Price = int64Ptr(1)
		}, KindInvalidStock, MsgStockTooLow},
		{"range checked before fields", func(in *AddProductInput) {
			in.Name = ""
			in.Price = int64Ptr(50)
		}, KindInvalidPrice, MsgPriceTooLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := validateProduct(in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, []string{tt.message}, Messages(err))
		})
	}
}

func TestValidateProduct_AcceptsLimits(t *testing.T) {
	in := validInput()
	in.Stock = intPtr(100)
	in.Price = int64Ptr(101)
	assert.NoError(t, validateProduct(in))

	in.Stock = intPtr(1)
	assert.NoError(t, validateProduct(in))

	in.Image = ""
	assert.NoError(t, validateProduct(in), "image is optional")
}

func TestValidateProduct_AggregatesFieldErrors(t *testing.T) {
	err := validateProduct(AddProductInput{Name: "   "})
	require.Error(t, err)

	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, []string{
		MsgNameRequired,
		MsgPriceRequired,
		MsgStockRequired,
		MsgCategoryMissing,
	}, Messages(err))
	assert.Equal(t, "Product name is required, Product price is required, Product stock is required, Category is required", err.Error())
}

func TestValidateProduct_OneMessagePerField(t *testing.T) {
	in := validInput()
	in.Name = ""

	err := validateProduct(in)
	require.Error(t, err)
	assert.Equal(t, []string{MsgNameRequired}, Messages(err))
}

func TestValidateProduct_LengthLimits(t *testing.T) {
	in := validInput()
	in.Category = strings.Repeat("c", 101)

	err := validateProduct(in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, []string{"Category must be at most 100 characters"}, Messages(err))
}

func TestValidatePurchase(t *testing.T) {
	err := validatePurchase(nil)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, MsgNotFound, err.Error())

	err = validatePurchase(&domain.Product{ID: 1, Stock: 0})
	assert.Equal(t, KindOutOfStock, KindOf(err))
	assert.Equal(t, MsgOutOfStock, err.Error())

	assert.NoError(t, validatePurchase(&domain.Product{ID: 1, Stock: 1}))
}

func TestValidateProduct_MalformedNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   AddProductInput
		kind Kind
		want []string
	}{
		{
			name: "range check on stock wins over malformed price",
			in:   AddProductInput{Name: "Widget", Stock: intPtr(0), Category: "Tools", Malformed: []string{FieldPrice}},
			kind: KindInvalidStock,
			want: []string{MsgStockTooLow},
		},
		{
			name: "malformed price replaces its required message",
			in:   AddProductInput{Name: "Widget", Stock: intPtr(10), Category: "Tools", Malformed: []string{FieldPrice}},
			kind: KindValidation,
			want: []string{MsgPriceMalformed},
		},
		{
			name: "malformed numbers aggregate with missing fields",
			in:   AddProductInput{Malformed: []string{FieldPrice, FieldStock}},
			kind: KindValidation,
			want: []string{MsgNameRequired, MsgPriceMalformed, MsgStockMalformed, MsgCategoryMissing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProduct(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.want, Messages(err))
		})
	}
}
