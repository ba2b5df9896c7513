package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// storageErr keeps business errors as they are and marks everything else
// as a collaborator failure.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.BusinessCode(err); ok {
		return err
	}
	return httperr.ErrCollaborator(op, err)
}
