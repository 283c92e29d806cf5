package domain

import "time"

// Client is the owner of zero or more accounts.
type Client struct {
	ID        string
	FirstName string
	LastName  string
	CreatedAt time.Time
}
