package application

import (
	"time"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// SeedBooks returns the starter catalog inserted by the initial migration.
// Each call returns a new slice.
func SeedBooks() []model.Book {
	return []model.Book{
		{Title: "Cuchillo de Agua", Author: "Paolo Bacigalupi", PublishedDate: day(2015, time.May, 26), Genre: "Ciencia Ficción", Price: 19.99},
		{Title: "De animales a dioses", Author: "Yuval Noah Harari", PublishedDate: day(2011, time.February, 1), Genre: "Historia", Price: 24.99},
		{Title: "1984", Author: "George Orwell", PublishedDate: day(1949, time.June, 8), Genre: "Ciencia Ficción", Price: 15.99},
		{Title: "Metro 2033", Author: "Dmitry Glukhovsky", PublishedDate: day(2005, time.November, 1), Genre: "Ciencia Ficción", Price: 12.99},
		{Title: "Los juegos del hambre", Author: "Suzanne Collins", PublishedDate: day(2008, time.September, 14), Genre: "Ciencia Ficción", Price: 18.99},
		{Title: "Los juegos del hambre: En llamas", Author: "Suzanne Collins", PublishedDate: day(2009, time.September, 1), Genre: "Ciencia Ficción", Price: 18.99},
		{Title: "Los juegos del hambre: Sinsajo", Author: "Suzanne Collins", PublishedDate: day(2010, time.August, 24), Genre: "Ciencia Ficción", Price: 18.99},
		{Title: "El hombre más rico de Babilonia", Author: "George S. Clason", PublishedDate: day(1926, time.April, 1), Genre: "Finanzas", Price: 16.99},
		{Title: "The Maze Runner: Correr o morir", Author: "James Dashner", PublishedDate: day(2009, time.October, 6), Genre: "Ciencia Ficción", Price: 22.99},
		{Title: "The Maze Runner: Prueba de fuego", Author: "James Dashner", PublishedDate: day(2010, time.September, 1), Genre: "Ciencia Ficción", Price: 22.99},
		{Title: "The Maze Runner: La cura mortal", Author: "James Dashner", PublishedDate: day(2011, time.October, 11), Genre: "Ciencia Ficción", Price: 22.99},
		{Title: "El Código Da Vinci", Author: "Dan Brown", PublishedDate: day(2003, time.March, 18), Genre: "Misterio", Price: 21.99},
	}
}
