package meli

import (
	"strconv"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// ToOffers converts Mercado Livre search items into normalized domain
// offers. Prices are already in BRL, so no currency conversion happens.
func ToOffers(items []SearchItem) []domain.Offer {
	offers := make([]domain.Offer, 0, len(items))
	for i := range items {
		offers = append(offers, toOffer(&items[i]))
	}
	return offers
}

func toOffer(item *SearchItem) domain.Offer {
	current := item.Price
	original := current
	if item.OriginalPrice != nil && *item.OriginalPrice > 0 {
		original = *item.OriginalPrice
	}

	o := domain.Offer{
		ExternalID:      item.ID,
		Marketplace:     domain.MarketplaceMeli,
		Name:            item.Title,
		Description:     item.Subtitle,
		CurrentPrice:    current,
		OriginalPrice:   original,
		DiscountPercent: domain.DiscountPercent(original, current),
		Savings:         domain.SavingsAmount(original, current),
		Currency:        item.CurrencyID,
		URL:             item.Permalink,
		ImageURL:        domain.PlaceholderImageURL,
		CategoryID:      item.CategoryID,
		InStock:         item.AvailableQty > 0,
		Condition:       "new",
		FreeShipping:    item.Shipping.FreeShipping,
	}

	if o.Currency == "" {
		o.Currency = "BRL"
	}

	if item.Thumbnail != "" {
		o.ImageURL = item.Thumbnail
	}

	if item.Condition != "" {
		o.Condition = item.Condition
	}

	qty := item.AvailableQty
	o.AvailableQty = &qty
	sold := item.SoldQty
	o.SoldQty = &sold

	if item.Reviews != nil {
		avg := item.Reviews.RatingAverage
		total := item.Reviews.Total
		o.RatingAvg = &avg
		o.RatingCount = &total
	}

	if item.Seller != nil {
		o.SellerID = strconv.FormatInt(item.Seller.ID, 10)
		o.SellerName = item.Seller.Nickname
	}

	return o
}
