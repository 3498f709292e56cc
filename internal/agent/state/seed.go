package state

// Seed loads the demo CRM fixtures used by the example binary and tests.
func (s *Store) Seed() {
	s.CreateContact(
		"Alice Johnson",
		"555-1234",
		[]string{"Interested in Brooklyn listings", "Prefers 2-bedroom apartments"},
		[]Listing{{Address: "123 Maple St, Brooklyn, NY"}},
	)
	s.CreateContact(
		"Bob Smith",
		"555-5678",
		[]string{"Looking for investment property", "Wants a fixer-upper"},
		[]Listing{
			{Address: "456 Oak Ave, Queens, NY"},
			{Address: "789 Pine Blvd, Manhattan, NY"},
		},
	)
}
