// Package lifecycle define la máquina de estados del libro de solicitudes:
// los estados válidos, qué transición dispara cada acción y qué roles pueden
// dispararla. Toda la lógica de permisos vive aquí como tabla explícita; los
// casos de uso la consultan una sola vez en el borde de la operación.
package lifecycle

import "github.com/comprascasa/compras-api/internal/domain/entity"

// Status estados del ciclo de vida de una línea de solicitud.
type Status string

const (
	StatusPendiente  Status = "Pendiente"  // esperando aprobación
	StatusAprobado   Status = "Aprobado"   // aprobado, esperando compra
	StatusRechazado  Status = "Rechazado"  // rechazado (terminal)
	StatusPostergado Status = "Postergado" // saltado en una pasada de compra, sigue accionable
	StatusComprado   Status = "Comprado"   // comprado (terminal)
)

// ValidStatus indica si s pertenece a la enumeración cerrada de estados.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPendiente, StatusAprobado, StatusRechazado, StatusPostergado, StatusComprado:
		return true
	}
	return false
}

// Terminal indica si el estado no admite más transiciones.
func Terminal(s Status) bool {
	return s == StatusRechazado || s == StatusComprado
}

// Action acciones que mueven una línea entre estados.
type Action string

const (
	ActionSolicitar Action = "solicitar" // crear/editar/eliminar la fila Pendiente
	ActionAprobar   Action = "aprobar"   // Pendiente → Aprobado
	ActionRechazar  Action = "rechazar"  // Pendiente → Rechazado
	ActionComprar   Action = "comprar"   // Aprobado/Postergado → Comprado
	ActionPostergar Action = "postergar" // Aprobado/Postergado → Postergado
)

// transition precondición y destino de cada acción.
type transition struct {
	from []Status
	to   Status
}

var transitions = map[Action]transition{
	ActionSolicitar: {from: []Status{StatusPendiente}, to: StatusPendiente},
	ActionAprobar:   {from: []Status{StatusPendiente}, to: StatusAprobado},
	ActionRechazar:  {from: []Status{StatusPendiente}, to: StatusRechazado},
	ActionComprar:   {from: []Status{StatusAprobado, StatusPostergado}, to: StatusComprado},
	ActionPostergar: {from: []Status{StatusAprobado, StatusPostergado}, to: StatusPostergado},
}

// permissions roles habilitados por acción. Jefe se añade implícitamente en Allowed.
var permissions = map[Action][]string{
	ActionSolicitar: {entity.RoleSolicitante},
	ActionAprobar:   {entity.RoleAdministrador},
	ActionRechazar:  {entity.RoleAdministrador},
	ActionComprar:   {entity.RoleComprador},
	ActionPostergar: {entity.RoleComprador},
}

// Allowed indica si el rol puede disparar la acción. Jefe puede todo.
func Allowed(role string, action Action) bool {
	if role == entity.RoleJefe {
		_, ok := transitions[action]
		return ok
	}
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanTransition indica si la acción es válida desde el estado actual.
func CanTransition(action Action, from Status) bool {
	t, ok := transitions[action]
	if !ok {
		return false
	}
	for _, s := range t.from {
		if s == from {
			return true
		}
	}
	return false
}

// Target devuelve el estado destino de la acción.
func Target(action Action) (Status, bool) {
	t, ok := transitions[action]
	return t.to, ok
}

// RolesFor devuelve los roles habilitados para la acción, incluido Jefe.
// Útil para declarar las reglas de autorización de rutas HTTP.
func RolesFor(action Action) []string {
	roles := append([]string{}, permissions[action]...)
	return append(roles, entity.RoleJefe)
}
