package model

import "time"

// Book is a catalog entry. Only the bootstrap seed writes books from this
// service; catalog queries live elsewhere.
type Book struct {
	ID            string
	Title         string
	Author        string
	PublishedDate time.Time
	Genre         string
	Price         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
