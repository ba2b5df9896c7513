package httperr

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// Unauthorized also stops the handler chain.
func Unauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, HTTPError{Code: code, Message: message})
}

// ======================================================
// TAXONOMIA -> HTTP
// ======================================================

var messages = map[string]string{
	"doctor_not_found":            "Médico não encontrado.",
	"service_not_found":           "Serviço não encontrado.",
	"appointment_not_found":       "Consulta não encontrada.",
	"unavailability_not_found":    "Indisponibilidade não encontrada.",
	"attempt_not_found":           "Tentativa expirada ou inexistente.",
	"appointment_not_in_conflict": "A consulta não faz parte dos conflitos desta tentativa.",
	"invalid_state":               "Operação não permitida no estado atual.",
	"time_conflict":               "Conflito de horário.",
	"invalid_window":              "Período de indisponibilidade inválido.",
	"invalid_duration":            "Duração inválida.",
	"invalid_working_hours":       "Horário de expediente inválido.",
	"invalid_break":               "Intervalo inválido.",
	"invalid_weekday":             "Dia da semana inválido.",
	"duplicated_weekday":          "Dia da semana repetido.",
	"invalid_owner":               "Dono da exceção inválido.",
	"invalid_date":                "Data inválida.",
	"invalid_date_range":          "Período inválido.",
	"invalid_horizon":             "Horizonte de sugestões inválido.",
	"invalid_max_slots":           "Limite de horários por dia inválido.",
}

// StatusOf maps an error to the HTTP status and error code the API
// answers with.
func StatusOf(err error) (int, string) {
	if code, ok := BusinessCode(err); ok {
		switch {
		case strings.HasSuffix(code, "_not_found"):
			return http.StatusNotFound, code
		case code == "time_conflict", code == "invalid_state", code == "appointment_not_in_conflict":
			return http.StatusConflict, code
		default:
			return http.StatusBadRequest, code
		}
	}
	if IsCollaborator(err) {
		return http.StatusServiceUnavailable, "collaborator_unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

// Respond writes err using StatusOf. Non-business errors are attached to
// the gin context for the access log.
func Respond(c *gin.Context, err error) {
	status, code := StatusOf(err)

	msg, ok := messages[code]
	switch {
	case ok:
	case status == http.StatusServiceUnavailable:
		msg = "Serviço temporariamente indisponível. Tente novamente."
	case status == http.StatusInternalServerError:
		msg = "Erro interno."
	default:
		msg = "Requisição inválida."
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Write(c, status, code, msg)
}
