package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/lifecycle"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_TablaCompleta(t *testing.T) {
	cases := []struct {
		name   string
		action lifecycle.Action
		from   lifecycle.Status
		want   bool
	}{
		{"aprobar desde Pendiente", lifecycle.ActionAprobar, lifecycle.StatusPendiente, true},
		{"rechazar desde Pendiente", lifecycle.ActionRechazar, lifecycle.StatusPendiente, true},
		{"comprar desde Aprobado", lifecycle.ActionComprar, lifecycle.StatusAprobado, true},
		{"comprar desde Postergado", lifecycle.ActionComprar, lifecycle.StatusPostergado, true},
		{"postergar desde Aprobado", lifecycle.ActionPostergar, lifecycle.StatusAprobado, true},
		{"postergar desde Postergado es idempotente", lifecycle.ActionPostergar, lifecycle.StatusPostergado, true},

		{"aprobar desde Aprobado", lifecycle.ActionAprobar, lifecycle.StatusAprobado, false},
		{"aprobar desde Comprado", lifecycle.ActionAprobar, lifecycle.StatusComprado, false},
		{"rechazar desde Aprobado", lifecycle.ActionRechazar, lifecycle.StatusAprobado, false},
		{"comprar desde Pendiente", lifecycle.ActionComprar, lifecycle.StatusPendiente, false},
		{"comprar desde Comprado", lifecycle.ActionComprar, lifecycle.StatusComprado, false},
		{"comprar desde Rechazado", lifecycle.ActionComprar, lifecycle.StatusRechazado, false},
		{"postergar desde Pendiente", lifecycle.ActionPostergar, lifecycle.StatusPendiente, false},
		{"postergar desde Rechazado", lifecycle.ActionPostergar, lifecycle.StatusRechazado, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lifecycle.CanTransition(tc.action, tc.from))
		})
	}
}

func TestTerminal_SoloRechazadoYComprado(t *testing.T) {
	assert.True(t, lifecycle.Terminal(lifecycle.StatusRechazado))
	assert.True(t, lifecycle.Terminal(lifecycle.StatusComprado))
	assert.False(t, lifecycle.Terminal(lifecycle.StatusPendiente))
	assert.False(t, lifecycle.Terminal(lifecycle.StatusAprobado))
	assert.False(t, lifecycle.Terminal(lifecycle.StatusPostergado))
}

func TestTarget_DestinosDeAcciones(t *testing.T) {
	target, ok := lifecycle.Target(lifecycle.ActionAprobar)
	assert.True(t, ok)
	assert.Equal(t, lifecycle.StatusAprobado, target)

	target, ok = lifecycle.Target(lifecycle.ActionComprar)
	assert.True(t, ok)
	assert.Equal(t, lifecycle.StatusComprado, target)

	_, ok = lifecycle.Target(lifecycle.Action("inexistente"))
	assert.False(t, ok)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []lifecycle.Status{
		lifecycle.StatusPendiente, lifecycle.StatusAprobado,
		lifecycle.StatusRechazado, lifecycle.StatusPostergado, lifecycle.StatusComprado,
	} {
		assert.True(t, lifecycle.ValidStatus(s), string(s))
	}
	assert.False(t, lifecycle.ValidStatus(lifecycle.Status("Cancelado")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestAllowed_JefePuedeTodo(t *testing.T) {
	for _, a := range []lifecycle.Action{
		lifecycle.ActionSolicitar, lifecycle.ActionAprobar, lifecycle.ActionRechazar,
		lifecycle.ActionComprar, lifecycle.ActionPostergar,
	} {
		assert.True(t, lifecycle.Allowed(entity.RoleJefe, a), string(a))
	}
}

func TestAllowed_RolesRestringidosASuPantalla(t *testing.T) {
	cases := []struct {
		role   string
		action lifecycle.Action
		want   bool
	}{
		{entity.RoleSolicitante, lifecycle.ActionSolicitar, true},
		{entity.RoleSolicitante, lifecycle.ActionAprobar, false},
		{entity.RoleSolicitante, lifecycle.ActionComprar, false},

		{entity.RoleAdministrador, lifecycle.ActionAprobar, true},
		{entity.RoleAdministrador, lifecycle.ActionRechazar, true},
		{entity.RoleAdministrador, lifecycle.ActionSolicitar, false},
		{entity.RoleAdministrador, lifecycle.ActionComprar, false},

		{entity.RoleComprador, lifecycle.ActionComprar, true},
		{entity.RoleComprador, lifecycle.ActionPostergar, true},
		{entity.RoleComprador, lifecycle.ActionAprobar, false},
		{entity.RoleComprador, lifecycle.ActionSolicitar, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, lifecycle.Allowed(tc.role, tc.action),
			"%s / %s", tc.role, tc.action)
	}
}

func TestAllowed_RolDesconocidoNoPuedeNada(t *testing.T) {
	assert.False(t, lifecycle.Allowed("Invitado", lifecycle.ActionSolicitar))
	assert.False(t, lifecycle.Allowed("", lifecycle.ActionAprobar))
}

func TestRolesFor_IncluyeJefe(t *testing.T) {
	roles := lifecycle.RolesFor(lifecycle.ActionComprar)
	assert.Contains(t, roles, entity.RoleComprador)
	assert.Contains(t, roles, entity.RoleJefe)
	assert.NotContains(t, roles, entity.RoleSolicitante)
}
