package domain

import "time"

// Review is a customer rating of a product.
// Author fields are a snapshot taken when the review is written.
type Review struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	UserID        string    `json:"user_id"`
	AuthorName    string    `json:"author_name"`
	AuthorPicture string    `json:"author_picture,omitempty"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// RatingSummary aggregates the reviews of a single product
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
