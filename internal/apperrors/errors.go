package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a concurrent modification was detected (row lock or version mismatch).
var ErrConflict = errors.New("concurrency conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInsufficientBalance indicates the wallet balance cannot cover the requested debit.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// ErrInvalidPlan indicates the referenced lock-in plan does not resolve.
var ErrInvalidPlan = errors.New("invalid lock-in plan")

// ErrNotMatured indicates a maturity operation on a lock-in that is not yet COMPLETED.
var ErrNotMatured = errors.New("lock-in has not matured")

// ErrAlreadyProcessed indicates a maturity operation on an already-resolved lock-in.
var ErrAlreadyProcessed = errors.New("lock-in already processed")
