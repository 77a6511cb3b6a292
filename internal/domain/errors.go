package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de zonas y reconfiguración.
	ErrUnknownZone            = errors.New("zona desconocida")
	ErrCapacityExhausted      = errors.New("no hay filas libres para asignar a la zona")
	ErrNoTargetLayout         = errors.New("no hay un layout objetivo confirmado para la cava")
	ErrPlanNotFound           = errors.New("plan de reconfiguración no encontrado o expirado")
	ErrConcurrentModification = errors.New("modificación concurrente detectada")
	ErrIntegrityViolation     = errors.New("violación de integridad: la ocupación total de la cava cambió")
)
