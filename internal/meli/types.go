package meli

// SearchResponse is the /sites/MLB/search response shape.
type SearchResponse struct {
	SiteID  string       `json:"site_id"`
	Query   string       `json:"query"`
	Paging  Paging       `json:"paging"`
	Results []SearchItem `json:"results"`
}

// Paging holds Mercado Livre pagination metadata.
type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SearchItem represents a single item from a Mercado Livre search.
type SearchItem struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Subtitle      string       `json:"subtitle,omitempty"`
	CategoryID    string       `json:"category_id"`
	Price         float64      `json:"price"`
	OriginalPrice *float64     `json:"original_price,omitempty"`
	CurrencyID    string       `json:"currency_id"`
	AvailableQty  int          `json:"available_quantity"`
	SoldQty       int          `json:"sold_quantity"`
	Condition     string       `json:"condition"`
	Permalink     string       `json:"permalink"`
	Thumbnail     string       `json:"thumbnail"`
	Shipping      ItemShipping `json:"shipping"`
	Reviews       *ItemReviews `json:"reviews,omitempty"`
	Seller        *ItemSeller  `json:"seller,omitempty"`
	Attributes    []Attribute  `json:"attributes,omitempty"`
}

// ItemShipping holds Mercado Livre shipping information.
type ItemShipping struct {
	FreeShipping bool `json:"free_shipping"`
}

// ItemReviews holds Mercado Livre rating information.
type ItemReviews struct {
	RatingAverage float64 `json:"rating_average"`
	Total         int     `json:"total"`
}

// ItemSeller holds Mercado Livre seller information.
type ItemSeller struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

// Attribute holds a Mercado Livre item attribute.
type Attribute struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ValueName string `json:"value_name"`
}
