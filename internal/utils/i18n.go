package utils

// Server-side messages for the API envelope. Question texts come from the bank.

const DefaultLocale = "es"

var SupportedLocales = []string{"es", "en"}

var translations = map[string]map[string]string{
	"es": {
		"health.ok":            "ok",
		"ok":                   "Operación exitosa",
		"created":              "Creado correctamente",
		"auth.registered":      "Usuario registrado",
		"auth.logged_in":       "Sesión iniciada",
		"questionnaire.next":   "Siguientes preguntas",
		"questionnaire.done":   "Cuestionario finalizado",
		"questionnaire.result": "Nivel calculado",
		"calibration.saved":    "Puntos iniciales guardados",
		"calibration.pending":  "Deportes pendientes de calibrar",
		"error.invalid":        "Solicitud inválida",
		"error.validation":     "Error de validación",
		"error.unauthorized":   "No autorizado",
		"error.forbidden":      "Acceso denegado",
		"error.not_found":      "Recurso no encontrado",
		"error.conflict":       "Conflicto con el estado actual",
		"error.internal":       "Error interno del servidor",
		"error.invalid_answer": "Respuesta inválida",
		"error.incomplete":     "El cuestionario no está completo",
		"error.zero_rating":    "La puntuación 0 no se puede guardar como puntos iniciales",
		"error.out_of_range":   "Puntaje fuera de rango",
		"error.method":         "Método no permitido",
	},
	"en": {
		"health.ok":            "ok",
		"ok":                   "Success",
		"created":              "Created",
		"auth.registered":      "User registered",
		"auth.logged_in":       "Logged in",
		"questionnaire.next":   "Next questions",
		"questionnaire.done":   "Questionnaire finished",
		"questionnaire.result": "Level calculated",
		"calibration.saved":    "Initial points saved",
		"calibration.pending":  "Sports pending calibration",
		"error.invalid":        "Invalid request",
		"error.validation":     "Validation error",
		"error.unauthorized":   "Unauthorized",
		"error.forbidden":      "Forbidden",
		"error.not_found":      "Resource not found",
		"error.conflict":       "Conflict with current state",
		"error.internal":       "Internal server error",
		"error.invalid_answer": "Invalid answer",
		"error.incomplete":     "Questionnaire is not finished",
		"error.zero_rating":    "A rating of 0 cannot be stored as initial points",
		"error.out_of_range":   "Points out of range",
		"error.method":         "Method not allowed",
	},
}

// T returns the translated string for key in locale; falls back to the
// default locale, then to the key itself.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations[DefaultLocale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
