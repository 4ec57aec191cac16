// Package domain holds complaint types and the contracts between transport, service and storage
package domain

import (
	"time"

	"zhkh/internal/core/category"
)

// StatusSuccess is the status field of every successful write
const StatusSuccess = "success"

// Complaint is a stored submission
type Complaint struct {
	ID        int64             `json:"id"`
	Text      string            `json:"text"`
	Address   string            `json:"address"`
	Category  category.Category `json:"category"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewComplaint is what gets inserted; the store assigns the id
type NewComplaint struct {
	Text      string
	Address   string
	Category  category.Category
	CreatedAt time.Time
}

// Submission is the POST /complaint body
type Submission struct {
	Text string `json:"text" validate:"required,notblank" example:"Адрес: ул. Мира, 10\nОписание: розетка искрит"`
}

// Ack acknowledges an accepted complaint
type Ack struct {
	Status   string            `json:"status"`
	ID       int64             `json:"id"`
	Category category.Category `json:"category"`
	Address  string            `json:"address"`
}

// Status is the body of write endpoints without a payload
type Status struct {
	Status string `json:"status"`
}

// Listing groups unprocessed complaints by category, newest first within a bucket
// every category key is always present
type Listing map[category.Category][]Complaint

// NewListing returns a listing with four empty buckets
func NewListing() Listing {
	l := make(Listing, len(category.All()))
	for _, c := range category.All() {
		l[c] = []Complaint{}
	}
	return l
}

// Add appends c to its bucket, unknown categories land in Other
func (l Listing) Add(c Complaint) {
	if !c.Category.Valid() {
		c.Category = category.Other
	}
	l[c.Category] = append(l[c.Category], c)
}

// Len counts complaints across buckets
func (l Listing) Len() int {
	n := 0
	for _, b := range l {
		n += len(b)
	}
	return n
}

// Event is one classification, appended to the analytics sink
type Event struct {
	ComplaintID int64
	Category    category.Category
	Strategy    string
	At          time.Time
}
