package transport

import (
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/service"
)

// decodeProductForm turns the submitted form into service input. Blank numeric
// fields stay nil so the service reports them as missing; malformed numbers are
// also left nil and listed in Malformed, so the service reports them in its
// usual order.
func decodeProductForm(form url.Values) service.AddProductInput {
	in := service.AddProductInput{
		Name:     form.Get("name"),
		Image:    form.Get("image"),
		Category: form.Get("category"),
	}

	if raw := strings.TrimSpace(form.Get("price")); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			in.Malformed = append(in.Malformed, service.FieldPrice)
		} else {
			in.Price = &price
		}
	}

	if raw := strings.TrimSpace(form.Get("stock")); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			in.Malformed = append(in.Malformed, service.FieldStock)
		} else {
			in.Stock = &stock
		}
	}

	return in
}
