package services

// Typed errors surfaced at the handler boundary. Every operation catches
// these and renders a single human-readable status; none are fatal.

type MissingCredentialError struct{ Message string }

func (e *MissingCredentialError) Error() string { return e.Message }

type EmptyInputError struct{ Message string }

func (e *EmptyInputError) Error() string { return e.Message }

type TransportError struct{ Message string }

func (e *TransportError) Error() string { return e.Message }

type SchemaViolationError struct{ Message string }

func (e *SchemaViolationError) Error() string { return e.Message }

// TypeMismatchError marks a structurally malformed import payload, e.g. a
// "flashcards" field that is not an array.
type TypeMismatchError struct{ Message string }

func (e *TypeMismatchError) Error() string { return e.Message }

type IOError struct{ Message string }

func (e *IOError) Error() string { return e.Message }

type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }
