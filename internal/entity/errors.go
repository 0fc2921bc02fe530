package entity

import "errors"

var (
	ErrNotFound              = errors.New("record not found")
	ErrDuplicateEmail        = errors.New("email already used by another lead")
	ErrDuplicatePhone        = errors.New("phone already used by another lead")
	ErrDuplicateName         = errors.New("name already used")
	ErrContractAlreadyLinked = errors.New("contract already linked to an active customer")
	ErrInvalidLeadStatus     = errors.New("invalid lead status")
	ErrInvalidStatusFilter   = errors.New("invalid status filter")
	ErrReferenced            = errors.New("record is still referenced")
)
