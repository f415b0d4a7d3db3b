// Package seed holds the fixture catalog used by the seed command and the
// development seeding endpoint.
package seed

import (
	"time"

	"moviereview/internal/model"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Movies returns the sample catalog.
func Movies() []model.Movie {
	return []model.Movie{
		{
			Title:       "The Shawshank Redemption",
			Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			ReleaseDate: date(1994, 9, 23),
			Director:    "Frank Darabont",
			Genre:       "Drama",
			Duration:    142,
		},
		{
			Title:       "The Godfather",
			Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
			ReleaseDate: date(1972, 3, 24),
			Director:    "Francis Ford Coppola",
			Genre:       "Crime",
			Duration:    175,
		},
		{
			Title:       "Inception",
			Description: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
			ReleaseDate: date(2010, 7, 16),
			Director:    "Christopher Nolan",
			Genre:       "Science Fiction",
			Duration:    148,
		},
		{
			Title:       "Spirited Away",
			Description: "A young girl wanders into a world ruled by gods, witches, and spirits, where humans are changed into beasts.",
			ReleaseDate: date(2001, 7, 20),
			Director:    "Hayao Miyazaki",
			Genre:       "Animation",
			Duration:    125,
		},
		{
			Title:       "Parasite",
			Description: "Greed and class discrimination threaten the newly formed symbiotic relationship between two families.",
			ReleaseDate: date(2019, 5, 30),
			Director:    "Bong Joon Ho",
			Genre:       "Thriller",
			Duration:    132,
		},
		{
			Title:       "Mad Max: Fury Road",
			Description: "In a post-apocalyptic wasteland, Max teams up with a mysterious woman to flee a tyrant and his army.",
			ReleaseDate: date(2015, 5, 15),
			Director:    "George Miller",
			Genre:       "Action",
			Duration:    120,
		},
	}
}
