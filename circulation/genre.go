package circulation

// Genre tags a book with one of the popular genres the catalog supports.
type Genre string

const (
	GenreAdventure              Genre = "Adventure"
	GenreArtAndPhotography      Genre = "Art & Photography"
	GenreBiography              Genre = "Biography"
	GenreBusinessAndMoney       Genre = "Business & Money"
	GenreChildrensFiction       Genre = "Children's Fiction"
	GenreCooking                Genre = "Cooking"
	GenreDetectiveAndMystery    Genre = "Detective & Mystery"
	GenreDystopian              Genre = "Dystopian"
	GenreFantasy                Genre = "Fantasy"
	GenreHealthAndFitness       Genre = "Health & Fitness"
	GenreHistoricalFiction      Genre = "Historical Fiction"
	GenreHorror                 Genre = "Horror"
	GenreLGBTQ                  Genre = "LGBTQ+"
	GenreMemoirAndAutobiography Genre = "Memoir & Autobiography"
	GenreRomance                Genre = "Romance"
)

var knownGenres = []Genre{
	GenreAdventure,
	GenreArtAndPhotography,
	GenreBiography,
	GenreBusinessAndMoney,
	GenreChildrensFiction,
	GenreCooking,
	GenreDetectiveAndMystery,
	GenreDystopian,
	GenreFantasy,
	GenreHealthAndFitness,
	GenreHistoricalFiction,
	GenreHorror,
	GenreLGBTQ,
	GenreMemoirAndAutobiography,
	GenreRomance,
}

// Valid reports whether g is a known genre.
func (g Genre) Valid() bool {
	for _, known := range knownGenres {
		if g == known {
			return true
		}
	}

	return false
}
