package models

import "time"

type MpaRating struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:10;uniqueIndex" json:"name"`
}

func (MpaRating) TableName() string {
	return "mpa_ratings"
}

type Genre struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:60;uniqueIndex" json:"name"`
}

func (Genre) TableName() string {
	return "genres"
}

type Director struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

func (Director) TableName() string {
	return "directors"
}

type Film struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"size:200" json:"description"`
	ReleaseDate Date       `gorm:"index" json:"releaseDate"`
	Duration    int        `json:"duration"`
	MpaID       int64      `gorm:"index" json:"-"`
	Mpa         MpaRating  `gorm:"foreignKey:MpaID" json:"mpa"`
	Genres      []Genre    `gorm:"many2many:film_genres" json:"genres"`
	Directors   []Director `gorm:"many2many:film_directors" json:"directors"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

func (Film) TableName() string {
	return "films"
}

// FilmGenre - связь фильм-жанр, пара уникальна
type FilmGenre struct {
	FilmID  int64 `gorm:"primaryKey"`
	GenreID int64 `gorm:"primaryKey;index"`
}

func (FilmGenre) TableName() string {
	return "film_genres"
}

type FilmDirector struct {
	FilmID     int64 `gorm:"primaryKey"`
	DirectorID int64 `gorm:"primaryKey;index"`
}

func (FilmDirector) TableName() string {
	return "film_directors"
}

// FilmLike - лайк фильма пользователем, повторный лайк не создаёт новую запись
type FilmLike struct {
	FilmID    int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FilmLike) TableName() string {
	return "film_likes"
}
