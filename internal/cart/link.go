package cart

import (
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottocart/internal/domain"
)

// CheckoutBase is the storefront add-to-cart endpoint.
const CheckoutBase = "https://affil.walmart.com/cart/addToCart?items="

// BuildLink formats merged quantities as a storefront deep link:
// CheckoutBase followed by comma-separated "id" or "id_N" tokens in the
// given order. It returns "" when there is nothing to buy.
func BuildLink(quantities []domain.ProductQuantity) string {
	tokens := make([]string, 0, len(quantities))
	for _, q := range quantities {
		if q.ProductID == "" || q.Quantity < 1 {
			continue
		}
		if q.Quantity == 1 {
			tokens = append(tokens, q.ProductID)
			continue
		}
		tokens = append(tokens, q.ProductID+"_"+strconv.Itoa(q.Quantity))
	}
	if len(tokens) == 0 {
		return ""
	}
	return CheckoutBase + strings.Join(tokens, ",")
}
