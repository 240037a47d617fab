package service

import "errors"

// Domain errors. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalidated = errors.New("session invalidated")

	ErrExamNotFound      = errors.New("exam not found")
	ErrExamInactive      = errors.New("exam is not active")
	ErrDuplicateExamCode = errors.New("exam code already in use")
	ErrInvalidExamCode   = errors.New("exam code may only contain lowercase letters, digits and hyphens")

	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidOptions   = errors.New("multiple choice question needs at least two options including the correct answer")

	ErrStudentNotFound     = errors.New("student not found")
	ErrInvalidStudentInput = errors.New("roll number and full name are required")
	ErrAlreadyAttempted    = errors.New("exam already attempted")
	ErrAlreadySubmitted    = errors.New("exam already submitted")
	ErrNotLoggedIn         = errors.New("student has not logged in to the exam")

	ErrResultNotFound = errors.New("result not found")
)
