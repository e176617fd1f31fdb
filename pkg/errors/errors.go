package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConfig          Code = "CONFIG_ERROR"
	CodeIntegration     Code = "INTEGRATION_ERROR"
	CodePaymentRequired Code = "PAYMENT_REQUIRED"
	CodeDependency      Code = "DEPENDENCY_ERROR"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Metadata describes how the sync pass treats each error class.
type Metadata struct {
	// Retryable means a later pass may succeed without operator action.
	Retryable bool
	// AbortsPass stops the whole batch instead of skipping the record.
	AbortsPass bool
	// PublicMessage is the operator-facing summary written to the sync log.
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:     false,
		PublicMessage: "storefront payload failed validation",
	},
	CodeNotFound: {
		Retryable:     false,
		PublicMessage: "record not found",
	},
	CodeConfig: {
		Retryable:     false,
		PublicMessage: "sync configuration incomplete",
	},
	CodeIntegration: {
		Retryable:     true,
		PublicMessage: "storefront rejected the request",
	},
	CodePaymentRequired: {
		Retryable:     false,
		AbortsPass:    true,
		PublicMessage: "storefront account requires payment",
	},
	CodeDependency: {
		Retryable:     true,
		PublicMessage: "dependency unavailable",
	},
	CodeInternal: {
		Retryable:     true,
		PublicMessage: "internal error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf extracts the domain code from any error in the chain,
// defaulting to CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// AbortsPass reports whether the error must stop the whole sync batch
// rather than being logged and skipped.
func AbortsPass(err error) bool {
	if err == nil {
		return false
	}
	return MetadataFor(CodeOf(err)).AbortsPass
}
