// Package validation validates request payloads with go-playground/validator.
//
// A single validator instance is shared by the whole process. Field names in
// error messages use the json tag of the field, so messages refer to the
// names clients send.
//
// Example:
//
//	type approveRequest struct {
//	    UserID string `json:"userId" validate:"required,uuid"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondWithError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
//
// Types can override individual messages by implementing Messager.
package validation
