package models

// Item represents a single book review in the catalog. Reviews are globally
// visible and carry no owner; they are created and edited, never deleted.
type Item struct {
	ID     int     `json:"id"`
	ISBN   string  `json:"isbn"`
	Author string  `json:"author"`
	Genre  string  `json:"genre"`
	Title  string  `json:"title"`
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
}
