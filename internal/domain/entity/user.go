package entity

import "time"

// Roles válidos para User. Jefe participa en todos los flujos;
// los demás roles quedan restringidos a su pantalla.
const (
	RoleJefe          = "Jefe"
	RoleAdministrador = "Administrador"
	RoleSolicitante   = "Solicitante"
	RoleComprador     = "Comprador"
)

// ValidRole indica si el rol pertenece a la enumeración cerrada.
func ValidRole(role string) bool {
	switch role {
	case RoleJefe, RoleAdministrador, RoleSolicitante, RoleComprador:
		return true
	}
	return false
}

// User representa un miembro del hogar. Se crea desde la lista semilla en el
// primer arranque; solo muta por cambio de contraseña, nunca se elimina.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // Jefe, Administrador, Solicitante, Comprador
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
