// Package errcode maps RTE error kinds to the numeric codes and messages each
// SCORM version reports through GetLastError, GetErrorString and
// GetDiagnostic.
package errcode

// Kind is a version independent error condition raised by the RTE.
type Kind string

const (
	NoError          Kind = "NO_ERROR"
	GeneralException Kind = "GENERAL_EXCEPTION"

	// Lifecycle
	GeneralInitFailure        Kind = "GENERAL_INIT_FAILURE"
	AlreadyInitialized        Kind = "ALREADY_INITIALIZED"
	AlreadyTerminated         Kind = "ALREADY_TERMINATED"
	GeneralTerminationFailure Kind = "GENERAL_TERMINATION_FAILURE"
	TerminateBeforeInit       Kind = "TERMINATE_BEFORE_INIT"
	TerminateAfterTerminate   Kind = "TERMINATE_AFTER_TERMINATE"
	GetBeforeInit             Kind = "GET_BEFORE_INIT"
	GetAfterTerminate         Kind = "GET_AFTER_TERMINATE"
	SetBeforeInit             Kind = "SET_BEFORE_INIT"
	SetAfterTerminate         Kind = "SET_AFTER_TERMINATE"
	CommitBeforeInit          Kind = "COMMIT_BEFORE_INIT"
	CommitAfterTerminate      Kind = "COMMIT_AFTER_TERMINATE"

	// Arguments and generic verb failures
	InvalidArgument      Kind = "INVALID_ARGUMENT"
	GeneralGetFailure    Kind = "GENERAL_GET_FAILURE"
	GeneralSetFailure    Kind = "GENERAL_SET_FAILURE"
	GeneralCommitFailure Kind = "GENERAL_COMMIT_FAILURE"

	// Data model
	UnknownElement            Kind = "UNKNOWN_ELEMENT"
	NotImplementedElement     Kind = "NOT_IMPLEMENTED_ELEMENT"
	ElementCannotHaveChildren Kind = "ELEMENT_CANNOT_HAVE_CHILDREN"
	ElementCannotHaveCount    Kind = "ELEMENT_CANNOT_HAVE_COUNT"
	ElementIsKeyword          Kind = "ELEMENT_IS_KEYWORD"
	ValueNotInitialized       Kind = "VALUE_NOT_INITIALIZED"
	ReadOnlyElement           Kind = "READ_ONLY_ELEMENT"
	WriteOnlyElement          Kind = "WRITE_ONLY_ELEMENT"
	TypeMismatch              Kind = "TYPE_MISMATCH"
	ValueOutOfRange           Kind = "VALUE_OUT_OF_RANGE"
	DependencyNotEstablished  Kind = "DEPENDENCY_NOT_ESTABLISHED"
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{
	NoError,
	GeneralException,
	GeneralInitFailure,
	AlreadyInitialized,
	AlreadyTerminated,
	GeneralTerminationFailure,
	TerminateBeforeInit,
	TerminateAfterTerminate,
	GetBeforeInit,
	GetAfterTerminate,
	SetBeforeInit,
	SetAfterTerminate,
	CommitBeforeInit,
	CommitAfterTerminate,
	InvalidArgument,
	GeneralGetFailure,
	GeneralSetFailure,
	GeneralCommitFailure,
	UnknownElement,
	NotImplementedElement,
	ElementCannotHaveChildren,
	ElementCannotHaveCount,
	ElementIsKeyword,
	ValueNotInitialized,
	ReadOnlyElement,
	WriteOnlyElement,
	TypeMismatch,
	ValueOutOfRange,
	DependencyNotEstablished,
}
