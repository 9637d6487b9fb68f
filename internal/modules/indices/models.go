// Package indices imports and scrapes shipping freight-rate indices.
package indices

// Index is a tracked freight index, keyed by code.
type Index struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// Point is one dated observation of an index value.
// Date uses YYYY-MM-DD, matching the index_points table.
type Point struct {
	Code   string  `json:"index_code"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Source string  `json:"source,omitempty"`
}
