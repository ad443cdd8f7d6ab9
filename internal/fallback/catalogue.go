// Package fallback serves a static offer catalogue when no marketplace
// can be reached. The data mirrors real listing shapes so downstream
// consumers render it exactly like live results.
package fallback

import (
	"strings"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// Warning is attached to every fallback result so callers can tell
// sample data from live data.
const Warning = "Dados de exemplo - marketplaces temporariamente indisponíveis ou aguardando autenticação OAuth"

// Catalogue holds the static offers and category taxonomy.
type Catalogue struct {
	offers     []domain.Offer
	categories []domain.Category
}

// New creates the static catalogue.
func New() *Catalogue {
	return &Catalogue{
		offers:     catalogueOffers(),
		categories: catalogueCategories(),
	}
}

// Search filters the catalogue by query and category and truncates to
// limit. It never fails and always sets the sample-data warning.
func (c *Catalogue) Search(filters domain.SearchFilters) *domain.SearchResult {
	matched := make([]domain.Offer, 0, len(c.offers))
	for _, o := range c.offers {
		if !matchesQueryOrDescription(&o, filters.Query) {
			continue
		}
		if filters.CategoryID != "" && o.CategoryID != filters.CategoryID {
			continue
		}
		matched = append(matched, o)
	}

	limit := filters.PerPage
	if limit <= 0 {
		limit = 20
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}

	return &domain.SearchResult{
		Success: true,
		Page:    page,
		PerPage: limit,
		Total:   len(matched),
		Offers:  matched,
		Warning: Warning,
	}
}

// Categories returns the static category taxonomy.
func (c *Catalogue) Categories() []domain.Category {
	return c.categories
}

func matchesQueryOrDescription(o *domain.Offer, term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(o.Name), t) ||
		strings.Contains(strings.ToLower(o.Description), t)
}

func catalogueCategories() []domain.Category {
	return []domain.Category{
		{ID: "MLB1055", Name: "Celulares e Smartphones"},
		{ID: "MLB1196", Name: "Computação"},
		{ID: "MLB1002", Name: "TVs e Áudio"},
		{ID: "MLB1144", Name: "Consoles e Videogames"},
		{ID: "MLB1384", Name: "Livros, Revistas e Comics"},
		{ID: "MLB1430", Name: "Esportes e Fitness"},
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func sample(
	id, name, desc string,
	current, original float64,
	categoryID, image string,
	available, sold int,
	freeShipping bool,
	rating float64, ratingCount int,
	sellerID, sellerName string,
) domain.Offer {
	return domain.Offer{
		ExternalID:      id,
		Marketplace:     domain.MarketplaceMeli,
		Name:            name,
		Description:     desc,
		CurrentPrice:    current,
		OriginalPrice:   original,
		DiscountPercent: domain.DiscountPercent(original, current),
		Savings:         domain.SavingsAmount(original, current),
		Currency:        "BRL",
		URL:             "https://www.mercadolivre.com.br",
		ImageURL:        image,
		CategoryID:      categoryID,
		InStock:         available > 0,
		AvailableQty:    intPtr(available),
		SoldQty:         intPtr(sold),
		Condition:       "new",
		FreeShipping:    freeShipping,
		RatingAvg:       floatPtr(rating),
		RatingCount:     intPtr(ratingCount),
		SellerID:        sellerID,
		SellerName:      sellerName,
	}
}

func catalogueOffers() []domain.Offer {
	return []domain.Offer{
		sample("MLB400000101", "Samsung Galaxy S23 128GB",
			"Smartphone com câmera avançada", 3499.00, 4199.00,
			"MLB1055", "https://http2.mlstatic.com/D_NQ_NP_2X_samsung-s23.webp",
			45, 1200, true, 4.6, 980, "SELLER400", "Samsung Oficial"),
		sample("MLB400000102", "Xiaomi Redmi Note 12 256GB",
			"Bateria de longa duração", 1299.90, 1699.90,
			"MLB1055", "https://http2.mlstatic.com/D_NQ_NP_2X_xiaomi-redmi.webp",
			150, 2100, false, 4.4, 540, "SELLER401", "Xiaomi Brasil"),
		sample("MLB400000103", "Motorola Moto G Power 64GB",
			"Ótimo custo-benefício", 799.90, 999.90,
			"MLB1055", "https://http2.mlstatic.com/D_NQ_NP_2X_motorola-gpower.webp",
			80, 760, true, 4.2, 210, "SELLER402", "Motorola Store"),
		sample("MLB400000105", "Fone Bluetooth ANC XYZ",
			"Cancelamento ativo de ruído", 299.90, 499.90,
			"MLB1055", "https://http2.mlstatic.com/D_NQ_NP_2X_earbuds.webp",
			120, 1500, true, 4.4, 342, "SELLER404", "Audio Store"),
		sample("MLB400000106", "Powerbank 20000mAh Fast Charge",
			"Carregamento rápido para celulares", 99.90, 149.90,
			"MLB1055", "https://http2.mlstatic.com/D_NQ_NP_2X_powerbank.webp",
			300, 980, true, 4.4, 210, "SELLER405", "PowerStore"),

		sample("MLB400000201", "Acer Aspire 5 i5 8GB 256GB SSD",
			"Notebook leve para uso diário", 2399.00, 2899.00,
			"MLB1196", "https://http2.mlstatic.com/D_NQ_NP_2X_acer-aspire.webp",
			30, 420, false, 4.3, 98, "SELLER500", "Acer Store"),
		sample("MLB400000202", "ASUS Vivobook 15 Ryzen 7 16GB",
			"Desempenho para produtividade", 4299.00, 5499.00,
			"MLB1196", "https://http2.mlstatic.com/D_NQ_NP_2X_asus-vivobook.webp",
			12, 300, true, 4.7, 410, "SELLER501", "ASUS BR"),
		sample("MLB400000204", "Mouse Gamer RGB 16000 DPI",
			"Precisão para longas sessões", 179.90, 249.90,
			"MLB1196", "https://http2.mlstatic.com/D_NQ_NP_2X_mouse-gamer.webp",
			60, 430, false, 4.5, 120, "SELLER503", "GamerShop"),
		sample("MLB400000205", "Teclado Mecânico RGB Tenkeyless",
			"Switches vermelhos, resposta rápida", 259.90, 349.90,
			"MLB1196", "https://http2.mlstatic.com/D_NQ_NP_2X_teclado-mecanico.webp",
			75, 310, true, 4.6, 210, "SELLER504", "KeyStore"),

		sample("MLB400000301", "Smart TV LG 50\" 4K",
			"Imagem 4K com HDR", 2699.00, 3299.00,
			"MLB1002", "https://http2.mlstatic.com/D_NQ_NP_2X_lg-50-4k.webp",
			25, 540, true, 4.5, 620, "SELLER600", "LG Store"),
		sample("MLB400000302", "Smart TV Samsung 43\" Crystal",
			"Tela cristal e design fino", 1999.00, 2499.00,
			"MLB1002", "https://http2.mlstatic.com/D_NQ_NP_2X_samsung-tv-43.webp",
			40, 870, false, 4.4, 410, "SELLER601", "Samsung Store"),
		sample("MLB400000304", "Smart TV TCL 32\" HD",
			"Tamanho compacto para quartos", 899.00, 1099.00,
			"MLB1002", "https://http2.mlstatic.com/D_NQ_NP_2X_tcl-32.webp",
			60, 320, false, 4.2, 88, "SELLER603", "TCL Store"),

		sample("MLB400000401", "PlayStation 5 Slim - Bundle",
			"Console + 1 jogo + 1 controle", 3899.00, 4799.00,
			"MLB1144", "https://http2.mlstatic.com/D_NQ_NP_2X_ps5-bundle.webp",
			0, 2341, false, 4.9, 2341, "SELLER700", "PlayStation Store"),
		sample("MLB400000402", "Xbox Series S 512GB - Edição Especial",
			"Compacto e rápido", 2199.00, 2699.00,
			"MLB1144", "https://http2.mlstatic.com/D_NQ_NP_2X_xbox-series-s.webp",
			18, 980, true, 4.7, 512, "SELLER701", "Microsoft Store"),
		sample("MLB400000404", "Headset Gamer Surround 7.1",
			"Áudio imersivo para jogos", 249.90, 349.90,
			"MLB1144", "https://http2.mlstatic.com/D_NQ_NP_2X_headset-gamer.webp",
			90, 430, true, 4.5, 220, "SELLER703", "ProGamer"),

		sample("MLB400000501", "O Poder do Hábito - Charles Duhigg",
			"Desenvolvimento pessoal e produtividade", 39.90, 59.90,
			"MLB1384", "https://http2.mlstatic.com/D_NQ_NP_2X_o-poder-do-habito.webp",
			400, 1500, false, 4.8, 760, "SELLER800", "Livraria Central"),
		sample("MLB400000502", "Sapiens - Yuval Noah Harari",
			"Uma Breve História da Humanidade", 49.90, 69.90,
			"MLB1384", "https://http2.mlstatic.com/D_NQ_NP_2X_sapiens.webp",
			220, 860, true, 4.9, 1340, "SELLER801", "Sebos & Livros"),

		sample("MLB400000601", "Tênis Nike Air Zoom Pegasus 38",
			"Treino e corrida diária", 349.90, 449.90,
			"MLB1430", "https://http2.mlstatic.com/D_NQ_NP_2X_nike-pegasus.webp",
			75, 640, false, 4.5, 234, "SELLER900", "Nike Oficial"),
		sample("MLB400000602", "Bicicleta Caloi 21 Marchas Aro 29",
			"Suspensão dianteira, ideal para trilhas leves", 1899.00, 2299.00,
			"MLB1430", "https://http2.mlstatic.com/D_NQ_NP_2X_caloi-29.webp",
			20, 120, false, 4.1, 87, "SELLER901", "Caloi Store"),
		sample("MLB400000603", "Suplemento Whey Protein 2kg",
			"Fórmulas premium para ganho de massa", 199.90, 249.90,
			"MLB1430", "https://http2.mlstatic.com/D_NQ_NP_2X_wheyprotein.webp",
			130, 980, false, 4.4, 410, "SELLER902", "NutriShop"),
	}
}
