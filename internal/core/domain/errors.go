package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNIMAlreadyUsed   = errors.New("nim already registered")
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
	ErrWeakPassword     = errors.New("password does not meet requirements")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// Kas errors
var (
	ErrKasNotFound     = errors.New("kas record not found")
	ErrKasAlreadyPaid  = errors.New("kas record for this month already exists")
	ErrKasNotPending   = errors.New("kas record is no longer pending")
	ErrProofRequired   = errors.New("proof of payment is required")
	ErrUploadFailed    = errors.New("proof upload failed")
	ErrInvalidMonth    = errors.New("invalid month name")
	ErrInvalidDecision = errors.New("invalid verification decision")
	ErrInvalidNote     = errors.New("invalid verification note")
)

// Pengeluaran errors
var (
	ErrPengeluaranNotFound = errors.New("pengeluaran not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrEmptyDescription    = errors.New("description must not be empty")
)
