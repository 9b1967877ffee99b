package domain

import "time"

// PhoneNumber is a charge target. It is shared by all sellers.
type PhoneNumber struct {
	ID        string
	Number    string
	CreatedAt time.Time
}
