package state

// Listing is a property reference attached to a contact.
type Listing struct {
	Address string `json:"address"`
}

// Contact is a CRM record. The ID is generated at creation and immutable;
// notes and listings are append-only through store operations.
type Contact struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Notes    []string  `json:"notes"`
	Listings []Listing `json:"listings"`
}

func (c *Contact) clone() *Contact {
	if c == nil {
		return nil
	}
	out := &Contact{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Notes:    make([]string, len(c.Notes)),
		Listings: make([]Listing, len(c.Listings)),
	}
	copy(out.Notes, c.Notes)
	copy(out.Listings, c.Listings)
	return out
}
