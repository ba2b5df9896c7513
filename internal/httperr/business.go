package httperr

import (
	"errors"
	"fmt"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode devolve o código de negócio, se houver.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// CollaboratorError indica que um colaborador externo (storage, diretório)
// falhou. Nenhuma decisão foi tomada; o chamador deve repetir ou abortar.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator unavailable: %s: %v", e.Op, e.Err)
}

func (e CollaboratorError) Unwrap() error {
	return e.Err
}

func ErrCollaborator(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce CollaboratorError
	if errors.As(err, &ce) {
		return err
	}
	return CollaboratorError{Op: op, Err: err}
}

func IsCollaborator(err error) bool {
	var ce CollaboratorError
	return errors.As(err, &ce)
}
