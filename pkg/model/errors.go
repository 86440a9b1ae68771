package model

import "errors"

var (
	// ErrStudentFullyBooked is returned when a course is added to a student
	// whose schedule already holds the maximum number of sessions.
	ErrStudentFullyBooked = errors.New("student is fully booked")
	// ErrHostAlreadyAttached is returned when a student is bound to a second host.
	ErrHostAlreadyAttached = errors.New("student already attached to a host")
	// ErrInvalidWindow is returned for sessions whose start is not before their end.
	ErrInvalidWindow = errors.New("session start must be before its end")
)
