package ebay

import (
	"context"
	"strconv"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// ToOffers converts eBay item summaries into normalized domain offers.
// Prices are converted into the display currency before the discount is
// computed, so a USD listing and a BRL listing compare on equal terms.
func ToOffers(
	ctx context.Context,
	items []ItemSummary,
	conv CurrencyConverter,
) []domain.Offer {
	offers := make([]domain.Offer, 0, len(items))
	for i := range items {
		offers = append(offers, toOffer(ctx, &items[i], conv))
	}
	return offers
}

func toOffer(
	ctx context.Context,
	item *ItemSummary,
	conv CurrencyConverter,
) domain.Offer {
	o := domain.Offer{
		ExternalID:  item.ItemID,
		Marketplace: domain.MarketplaceEbay,
		Name:        item.Title,
		Description: item.ShortDescription,
		Currency:    conv.Display(),
		ImageURL:    domain.PlaceholderImageURL,
		InStock:     true,
		Condition:   "New",
	}

	current := parsePrice(item.Price.Value)
	original := current
	if item.MarketingPrice != nil && item.MarketingPrice.OriginalPrice != nil {
		if v := parsePrice(item.MarketingPrice.OriginalPrice.Value); v > 0 {
			original = v
		}
	}

	o.CurrentPrice = conv.ToDisplay(ctx, current, item.Price.Currency)
	o.OriginalPrice = conv.ToDisplay(ctx, original, item.Price.Currency)
	o.DiscountPercent = domain.DiscountPercent(o.OriginalPrice, o.CurrentPrice)
	o.Savings = domain.SavingsAmount(o.OriginalPrice, o.CurrentPrice)

	if item.ItemWebURL != "" {
		o.URL = item.ItemWebURL
	}

	if item.Image != nil && item.Image.ImageURL != "" {
		o.ImageURL = item.Image.ImageURL
	}

	if item.Condition != "" {
		o.Condition = item.Condition
	}

	if len(item.ShippingOptions) > 0 {
		o.FreeShipping = item.ShippingOptions[0].ShippingCostType == "FREE"
	}

	if len(item.Categories) > 0 {
		o.CategoryID = item.Categories[0].CategoryID
	}

	if item.Seller != nil {
		o.SellerName = item.Seller.Username
	}

	return o
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
