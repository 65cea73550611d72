package books

// SeedData returns example payloads used to pre-populate an empty collection.
func SeedData() []Payload {
	return []Payload{
		{
			Name:      "The Go Programming Language",
			Year:      2015,
			Author:    "Alan A. A. Donovan",
			Summary:   "A thorough introduction to Go and its standard library.",
			Publisher: "Addison-Wesley",
			PageCount: 380,
			ReadPage:  380,
		},
		{
			Name:      "Concurrency in Go",
			Year:      2017,
			Author:    "Katherine Cox-Buday",
			Summary:   "Tools and techniques for concurrent Go programs.",
			Publisher: "O'Reilly Media",
			PageCount: 238,
			ReadPage:  120,
			Reading:   true,
		},
		{
			Name:      "War and Peace",
			Year:      1869,
			Author:    "Leo Tolstoy",
			Summary:   "Five aristocratic families during the Napoleonic wars.",
			Publisher: "The Russian Messenger",
			PageCount: 1225,
			ReadPage:  0,
		},
	}
}
