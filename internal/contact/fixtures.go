package contact

// DefaultContacts returns the sample list shown before anything has been saved.
// Every call mints fresh ids.
func DefaultContacts(newID func() string) []Contact {
	samples := []struct{ name, relation string }{
		{"Abba", "Father"},
		{"Amma", "Mother"},
		{"Dada", "Grandfather"},
		{"Bon", "Sister"},
		{"Chacha", "Uncle"},
	}

	contacts := make([]Contact, 0, len(samples))
	for _, s := range samples {
		contacts = append(contacts, Contact{
			ID:       newID(),
			Name:     s.name,
			Relation: s.relation,
			Phones:   []string{"+8801XXXXXXXXX"},
			Status:   StatusNotCalled,
		})
	}
	return contacts
}
