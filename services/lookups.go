package services

import (
	"errors"

	"filmorate/models"

	"gorm.io/gorm"
)

// Проверки существования сущностей. Вызываются внутри транзакции,
// чтобы проверка и последующая запись видели одно и то же состояние.

func countByIDs(tx *gorm.DB, model interface{}, ids []int64) (int64, error) {
	var count int64
	err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func requireUser(tx *gorm.DB, userID int64) error {
	count, err := countByIDs(tx, &models.User{}, []int64{userID})
	if err != nil {
		return internalError("check user", err)
	}
	if count == 0 {
		return notFoundError("user %d not found", userID)
	}
	return nil
}

// requireUsers проверяет пары пользователей и сообщает первого отсутствующего
func requireUsers(tx *gorm.DB, userIDs ...int64) error {
	for _, id := range userIDs {
		if err := requireUser(tx, id); err != nil {
			return err
		}
	}
	return nil
}

func requireFilm(tx *gorm.DB, filmID int64) error {
	count, err := countByIDs(tx, &models.Film{}, []int64{filmID})
	if err != nil {
		return internalError("check film", err)
	}
	if count == 0 {
		return notFoundError("film %d not found", filmID)
	}
	return nil
}

func requireDirector(tx *gorm.DB, directorID int64) error {
	count, err := countByIDs(tx, &models.Director{}, []int64{directorID})
	if err != nil {
		return internalError("check director", err)
	}
	if count == 0 {
		return notFoundError("director %d not found", directorID)
	}
	return nil
}

func requireMpa(tx *gorm.DB, mpaID int64) error {
	count, err := countByIDs(tx, &models.MpaRating{}, []int64{mpaID})
	if err != nil {
		return internalError("check mpa", err)
	}
	if count == 0 {
		return notFoundError("mpa rating %d not found", mpaID)
	}
	return nil
}

// requireAll проверяет, что все id (уже без дублей) есть в таблице модели
func requireAll(tx *gorm.DB, model interface{}, kind string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var found []int64
	if err := tx.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return internalError("check "+kind, err)
	}
	known := make(map[int64]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return notFoundError("%s %d not found", kind, id)
		}
	}
	return nil
}

// takeForUpdate читает строку с блокировкой FOR UPDATE (в sqlite блокировка не нужна и опускается)
func takeForUpdate(tx *gorm.DB, dest interface{}, id int64, kind string) error {
	err := tx.Clauses(lockForUpdate).Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError("%s %d not found", kind, id)
	}
	return internalError("load "+kind, err)
}

// uniqueIDs убирает дубли, сохраняя порядок первого появления
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
