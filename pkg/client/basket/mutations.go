package basket

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/params"
	"github.com/goliatone/go-storefront/pkg/view"
)

// DefaultStockType is used when the request names none.
const DefaultStockType = "default"

type productRow struct {
	ProdID     string         `mapstructure:"prodid"`
	AttrVarID  any            `mapstructure:"attrvarid"`
	AttrConfID map[string]any `mapstructure:"attrconfid"`
	StockType  string         `mapstructure:"stocktype"`
	Supplier   string         `mapstructure:"supplier"`
	SiteID     string         `mapstructure:"siteid"`
}

// addProducts adds the single product of b_prodid or, without one, every
// valid b_prod row in list order.
func (c *Client) addProducts(ctx context.Context, v *view.View, ctl frontend.BasketController) (int, error) {
	p := v.Params()

	products := c.Context().Controllers.Product
	if products == nil {
		return 0, frontend.NewControllerError("No product controller available", nil)
	}
	products = products.Uses(frontend.BasketProductDomains...)

	if prodID := p.String("b_prodid", ""); prodID != "" && p.Int("b_quantity", 0) > 0 {
		product, err := products.Get(ctx, prodID)
		if err != nil {
			return 0, err
		}
		err = ctl.AddProduct(ctx, frontend.AddProductInput{
			Product:      product,
			Quantity:     p.Int("b_quantity", 0),
			VariantAttrs: nonEmpty(p.Strings("b_attrvarid")),
			ConfigAttrs:  AttributeMap(p.Map("b_attrconfid")),
			CustomAttrs:  customAttributes(rawParam(p, "b_attrcustid")),
			StockType:    p.String("b_stocktype", DefaultStockType),
			Supplier:     p.String("b_supplier", ""),
			SiteID:       p.String("b_siteid", ""),
		})
		if err != nil {
			return 0, err
		}
		return 1, nil
	}

	added := 0
	for _, row := range p.Rows("b_prod") {
		quantity := params.ToInt(row["quantity"], 0)
		if quantity <= 0 {
			continue
		}

		var values productRow
		if err := params.DecodeRow(row, &values); err != nil {
			return added, err
		}
		if values.ProdID == "" {
			continue
		}
		if values.StockType == "" {
			values.StockType = DefaultStockType
		}

		product, err := products.Get(ctx, values.ProdID)
		if err != nil {
			return added, err
		}
		err = ctl.AddProduct(ctx, frontend.AddProductInput{
			Product:      product,
			Quantity:     quantity,
			VariantAttrs: nonEmpty(params.ToStrings(values.AttrVarID)),
			ConfigAttrs:  AttributeMap(values.AttrConfID),
			CustomAttrs:  customAttributes(row["attrcustid"]),
			StockType:    values.StockType,
			Supplier:     values.Supplier,
			SiteID:       values.SiteID,
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// updateProducts changes the quantity of b_position or, without one, of
// every b_prod row carrying a position. Quantities default to 1; rows with a
// non-positive quantity are skipped.
func updateProducts(ctx context.Context, v *view.View, ctl frontend.BasketController) (int, error) {
	p := v.Params()

	type update struct{ position, quantity int }
	var updates []update

	if raw := p.String("b_position", ""); raw != "" {
		if position := params.ToInt(raw, -1); position >= 0 {
			updates = append(updates, update{position: position, quantity: p.Int("b_quantity", 1)})
		}
	} else {
		for _, row := range p.Rows("b_prod") {
			raw, ok := row["position"]
			if !ok {
				continue
			}
			position := params.ToInt(raw, -1)
			if position < 0 {
				continue
			}
			updates = append(updates, update{position: position, quantity: params.ToInt(row["quantity"], 1)})
		}
	}

	changed := 0
	for _, u := range updates {
		if u.quantity <= 0 {
			continue
		}
		if err := ctl.UpdateProduct(ctx, u.position, u.quantity); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// deleteProducts removes every position listed in b_position.
func deleteProducts(ctx context.Context, v *view.View, ctl frontend.BasketController) (int, error) {
	deleted := 0
	for _, raw := range v.Params().Strings("b_position") {
		position := params.ToInt(raw, -1)
		if position < 0 {
			continue
		}
		if err := ctl.DeleteProduct(ctx, position); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func addCoupon(ctx context.Context, v *view.View, ctl frontend.BasketController) (int, error) {
	code := strings.TrimSpace(v.Param("b_coupon", ""))
	if code == "" {
		return 0, nil
	}
	if err := ctl.AddCoupon(ctx, code); err != nil {
		return 0, err
	}
	return 1, nil
}

func deleteCoupon(ctx context.Context, v *view.View, ctl frontend.BasketController) (int, error) {
	code := strings.TrimSpace(v.Param("b_coupon", ""))
	if code == "" {
		return 0, nil
	}
	if err := ctl.DeleteCoupon(ctx, code); err != nil {
		return 0, err
	}
	return 1, nil
}

// AttributeMap pairs the "id" and "qty" entries of a configurable attribute
// parameter by their submitted index. Empty and zero entries are dropped and
// only positive quantities are kept.
func AttributeMap(values map[string]any) map[string]int {
	out := map[string]int{}
	if len(values) == 0 {
		return out
	}

	ids := params.ToIndexed(values["id"])
	qtys := params.ToIndexed(values["qty"])

	for idx, id := range ids {
		id = strings.TrimSpace(id)
		qty, ok := qtys[idx]
		if falsy(id) || !ok || falsy(qty) {
			continue
		}
		if n := params.ToInt(qty, 0); n > 0 {
			out[id] = n
		}
	}
	return out
}

// customAttributes keeps custom attribute values keyed by attribute id.
func customAttributes(value any) map[string]string {
	out := map[string]string{}
	switch v := value.(type) {
	case map[string]any:
		for id, entry := range params.ToStringMap(v) {
			if !falsy(entry) {
				out[id] = entry
			}
		}
	case []any:
		for idx, entry := range params.ToStrings(v) {
			if !falsy(entry) {
				out[strconv.Itoa(idx)] = entry
			}
		}
	}
	return out
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); !falsy(value) {
			out = append(out, value)
		}
	}
	return out
}

// falsy matches the values an HTML form submits for unselected entries.
func falsy(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == "0"
}

func rawParam(p params.Params, name string) any {
	value, _ := p.Get(name)
	return value
}
