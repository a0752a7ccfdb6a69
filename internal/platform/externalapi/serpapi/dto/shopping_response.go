// Package dto defines data transfer objects for the SerpApi responses.
package dto

// ShoppingResponse represents the JSON response from the google_shopping engine.
type ShoppingResponse struct {
	Error           string           `json:"error,omitempty"`
	ShoppingResults []ShoppingResult `json:"shopping_results"`
}

// ShoppingResult is one entry of shopping_results. Optional fields are pointers
// so that absent values can be told apart from zero values.
type ShoppingResult struct {
	Position       int      `json:"position"`
	ProductID      string   `json:"product_id,omitempty"`
	Title          string   `json:"title,omitempty"`
	Price          string   `json:"price,omitempty"`
	ExtractedPrice *float64 `json:"extracted_price,omitempty"`
	Source         string   `json:"source,omitempty"`
	Link           string   `json:"link,omitempty"`
	ProductLink    string   `json:"product_link,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
}
