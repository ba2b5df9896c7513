package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending      Status = "pending"
	StatusConfirmed    Status = "confirmed"
	StatusPendingAI    Status = "pending_ai"
	StatusFitInPending Status = "fit_in_pending"
	StatusFinalized    Status = "finalized"
	StatusCancelled    Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPendingAI,
		StatusFitInPending, StatusFinalized, StatusCancelled:
		return true
	}
	return false
}

// Occupies diz se a consulta ocupa a agenda (tudo menos cancelada).
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanCancel define se uma consulta pode ser cancelada
func CanCancel(current Status) error {
	if current == StatusCancelled || current == StatusFinalized {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanFinalize define se uma consulta pode ser finalizada
func CanFinalize(current Status) error {
	if current != StatusConfirmed && current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReschedule define se uma consulta pode mudar de horário
func CanReschedule(current Status) error {
	if current == StatusCancelled || current == StatusFinalized {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus(isFitIn bool) Status {
	if isFitIn {
		return StatusFitInPending
	}
	return StatusPending
}
