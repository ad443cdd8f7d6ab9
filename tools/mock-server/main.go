// Package main implements a mock marketplace server for local development.
// It serves canned responses from JSON fixtures to simulate the eBay Browse
// API, the Mercado Livre site search, both OAuth token endpoints, and the
// exchange-rate service, without requiring real credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type browseAPIResponse struct {
	ItemSummaries []json.RawMessage `json:"itemSummaries"`
	Total         int               `json:"total"`
	Offset        int               `json:"offset"`
	Limit         int               `json:"limit"`
	Next          string            `json:"next"`
}

type meliPaging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type meliSearchResponse struct {
	SiteID  string            `json:"site_id"`
	Query   string            `json:"query"`
	Paging  meliPaging        `json:"paging"`
	Results []json.RawMessage `json:"results"`
}

type titledItem struct {
	Title string `json:"title"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	ebayFixture := flag.String("ebay-fixture", "tools/mock-server/testdata/ebay_search.json", "path to eBay search fixture")
	meliFixture := flag.String("meli-fixture", "tools/mock-server/testdata/meli_search.json", "path to Mercado Livre search fixture")
	usdRate := flag.Float64("usd-rate", 5.2, "mock USD to BRL exchange rate")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ebay, err := loadEbayFixture(*ebayFixture)
	if err != nil {
		logger.Error("failed to load eBay fixture", "path", *ebayFixture, "error", err)
		os.Exit(1)
	}
	meli, err := loadMeliFixture(*meliFixture)
	if err != nil {
		logger.Error("failed to load Mercado Livre fixture", "path", *meliFixture, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixtures", "ebay_items", len(ebay.ItemSummaries), "meli_items", len(meli.Results))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/v1/oauth2/token", ebayTokenHandler(logger))
	mux.HandleFunc("GET /buy/browse/v1/item_summary/search", ebaySearchHandler(logger, ebay))
	mux.HandleFunc("POST /oauth/token", meliTokenHandler(logger))
	mux.HandleFunc("GET /sites/MLB/search", meliSearchHandler(logger, meli))
	mux.HandleFunc("GET /v6/latest/{currency}", rateHandler(logger, *usdRate))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock marketplace server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadEbayFixture(path string) (*browseAPIResponse, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp browseAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

func loadMeliFixture(path string) (*meliSearchResponse, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp meliSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func ebayTokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Validate Basic Auth header is present (don't verify creds).
		if _, _, ok := r.BasicAuth(); !ok {
			logger.Warn("token request missing Basic Auth header")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_client",
				"error_description": "client authentication failed",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "mock-ebay-token-" + strconv.FormatInt(int64(os.Getpid()), 16),
			"expires_in":   7200,
			"token_type":   "Application Access Token",
		})
		logger.Info("issued mock eBay token")
	}
}

func meliTokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		grantType := r.PostFormValue("grant_type")
		if grantType != "authorization_code" && grantType != "refresh_token" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{
				"error": "invalid_grant",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "mock-meli-token-" + strconv.FormatInt(time.Now().Unix(), 16),
			"refresh_token": "mock-meli-refresh-" + strconv.FormatInt(time.Now().Unix(), 16),
			"expires_in":    21600,
			"user_id":       123456789,
			"token_type":    "Bearer",
		})
		logger.Info("issued mock Mercado Livre token", "grant_type", grantType)
	}
}

func rateHandler(logger *slog.Logger, usdRate float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency := r.PathValue("currency")
		rates := map[string]float64{"BRL": 1.0}
		if currency == "USD" {
			rates["BRL"] = usdRate
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"result":    "success",
			"base_code": currency,
			"rates":     rates,
		})
		logger.Info("served mock exchange rate", "base", currency)
	}
}

func ebaySearchHandler(logger *slog.Logger, fixture *browseAPIResponse) http.HandlerFunc {
	items := indexItems(fixture.ItemSummaries)

	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		limit := parsePositive(r.URL.Query().Get("limit"), 50)
		offset := parseNonNegative(r.URL.Query().Get("offset"))

		matched := filterItems(items, q)
		total := len(matched)
		matched = paginate(matched, offset, limit)

		next := ""
		if offset+limit < total {
			next = fmt.Sprintf("/buy/browse/v1/item_summary/search?q=%s&offset=%d&limit=%d",
				r.URL.Query().Get("q"), offset+limit, limit)
		}

		resp := browseAPIResponse{
			ItemSummaries: matched,
			Total:         total,
			Offset:        offset,
			Limit:         limit,
			Next:          next,
		}

		// Return empty array instead of null when no results.
		if resp.ItemSummaries == nil {
			resp.ItemSummaries = []json.RawMessage{}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("ebay search", "query", q, "matched", total, "returned", len(matched))
	}
}

func meliSearchHandler(logger *slog.Logger, fixture *meliSearchResponse) http.HandlerFunc {
	items := indexItems(fixture.Results)

	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		limit := parsePositive(r.URL.Query().Get("limit"), 20)
		offset := parseNonNegative(r.URL.Query().Get("offset"))

		matched := filterItems(items, q)
		total := len(matched)
		matched = paginate(matched, offset, limit)

		resp := meliSearchResponse{
			SiteID:  "MLB",
			Query:   r.URL.Query().Get("q"),
			Paging:  meliPaging{Total: total, Offset: offset, Limit: limit},
			Results: matched,
		}
		if resp.Results == nil {
			resp.Results = []json.RawMessage{}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("meli search", "query", q, "matched", total, "returned", len(matched))
	}
}

type indexedItem struct {
	raw   json.RawMessage
	title string
}

func indexItems(raws []json.RawMessage) []indexedItem {
	items := make([]indexedItem, 0, len(raws))
	for _, raw := range raws {
		var t titledItem
		//nolint:errcheck,gosec // fixture data is trusted; title extraction is best-effort
		json.Unmarshal(raw, &t)
		items = append(items, indexedItem{raw: raw, title: strings.ToLower(t.Title)})
	}
	return items
}

// filterItems keeps items whose title contains every word of the query.
func filterItems(items []indexedItem, q string) []json.RawMessage {
	words := strings.Fields(q)

	var matched []json.RawMessage
	for _, item := range items {
		ok := true
		for _, w := range words {
			if !strings.Contains(item.title, w) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, item.raw)
		}
	}
	return matched
}

func paginate(items []json.RawMessage, offset, limit int) []json.RawMessage {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func parsePositive(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return fallback
}

func parseNonNegative(s string) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return 0
}
