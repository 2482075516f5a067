package repository

import "github.com/comprascasa/compras-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UpdatePassword(id, passwordHash string) error
	Count() (int, error)
	List() ([]*entity.User, error)
}
