// Package catalog provides product catalog resolvers: an HTTP client for a
// product search service, an offline in-memory catalog, and a caching
// decorator. Every resolver degrades failures to empty candidate lists.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottocart/internal/domain"
)

// Field aliases accepted for loosely shaped product entries.
var (
	idKeys    = []string{"product_id", "productId", "itemId", "id"}
	nameKeys  = []string{"name", "title"}
	priceKeys = []string{"price", "salePrice", "sale_price"}
	imageKeys = []string{"image_url", "imageUrl", "thumbnailImage", "image"}
)

var (
	errMissingID    = errors.New("missing product id")
	errMissingName  = errors.New("missing name")
	errMissingPrice = errors.New("missing price")
	errBadPrice     = errors.New("invalid price")
)

// Coerce validates one raw product entry and converts it into a
// ProductCandidate. Product IDs may be strings or numbers, prices numbers
// or numeric strings with an optional leading "$".
func Coerce(raw map[string]any) (domain.ProductCandidate, error) {
	id, ok := firstString(raw, idKeys)
	if !ok {
		return domain.ProductCandidate{}, errMissingID
	}
	name, ok := firstString(raw, nameKeys)
	if !ok {
		return domain.ProductCandidate{}, errMissingName
	}

	var (
		price decimal.Decimal
		found bool
	)
	for _, k := range priceKeys {
		v, present := raw[k]
		if !present || v == nil {
			continue
		}
		p, err := toDecimal(v)
		if err != nil {
			return domain.ProductCandidate{}, fmt.Errorf("%w: %v", errBadPrice, err)
		}
		price, found = p, true
		break
	}
	if !found {
		return domain.ProductCandidate{}, errMissingPrice
	}
	if price.IsNegative() {
		return domain.ProductCandidate{}, fmt.Errorf("%w: %s is negative", errBadPrice, price)
	}

	image, _ := firstString(raw, imageKeys)

	return domain.ProductCandidate{
		ProductID: id,
		Name:      name,
		Price:     price,
		ImageURL:  image,
	}, nil
}

// CoerceList converts raw entries for one ingredient, dropping malformed
// ones and repeated product IDs, and keeps at most domain.MaxCandidates.
// Rejections are reported through reject, which may be nil.
func CoerceList(raw []map[string]any, reject func(i int, err error)) []domain.ProductCandidate {
	out := make([]domain.ProductCandidate, 0, domain.MaxCandidates)
	seen := make(map[string]struct{}, len(raw))
	for i, entry := range raw {
		if len(out) == domain.MaxCandidates {
			break
		}
		c, err := Coerce(entry)
		if err != nil {
			if reject != nil {
				reject(i, err)
			}
			continue
		}
		if _, dup := seen[c.ProductID]; dup {
			if reject != nil {
				reject(i, fmt.Errorf("duplicate product id %s", c.ProductID))
			}
			continue
		}
		seen[c.ProductID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func firstString(raw map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case json.Number:
			s = t.String()
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			s = strconv.Itoa(t)
		case int64:
			s = strconv.FormatInt(t, 10)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case json.Number:
		return decimal.NewFromString(t.String())
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(t), "$")
		return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported type %T", v)
	}
}
