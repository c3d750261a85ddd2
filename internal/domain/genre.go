package domain

// Genre is one entry of the provider's fixed genre taxonomy.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// genres lists the supported provider genres in display order.
var genres = []Genre{
	{ID: 35, Name: "Comedy"},
	{ID: 18, Name: "Drama"},
	{ID: 28, Name: "Action"},
	{ID: 10749, Name: "Romance"},
	{ID: 27, Name: "Horror"},
	{ID: 878, Name: "Sci-Fi"},
	{ID: 16, Name: "Animation"},
	{ID: 53, Name: "Thriller"},
}

// Genres returns the taxonomy as a fresh slice so callers cannot mutate it.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// GenreByID resolves a provider genre identifier to its taxonomy entry.
func GenreByID(id int) (Genre, bool) {
	for _, g := range genres {
		if g.ID == id {
			return g, true
		}
	}
	return Genre{}, false
}
