package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - некорректные или отсутствующие входные данные
	ErrValidation = errors.New("validation error")
	// ErrNotFound - неизвестный пользователь, фильм, отзыв и т.п.
	ErrNotFound = errors.New("not found")
	// ErrInternal - сбой хранилища, не связанный с бизнес-правилами
	ErrInternal = errors.New("internal error")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// internalError оборачивает ошибку хранилища, доменные ошибки пропускает как есть
func internalError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
