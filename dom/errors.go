package dom

import (
	"errors"
	"fmt"

	"github.com/chrisuehlinger/livedom/css"
)

// DOMError represents a DOM exception with a name and message.
// Err holds the underlying cause, if any.
type DOMError struct {
	Name    string
	Message string
	Err     error
}

func (e *DOMError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *DOMError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *DOMError with the same name, so that
// errors.Is(err, dom.ErrReadOnlyProperty) matches any read-only failure.
func (e *DOMError) Is(target error) bool {
	t, ok := target.(*DOMError)
	return ok && t.Name == e.Name
}

// Sentinels for errors.Is. Only the Name is compared.
var (
	ErrReadOnlyProperty     = &DOMError{Name: "ReadOnlyPropertyError"}
	ErrUnsupportedOperation = &DOMError{Name: "UnsupportedOperationError"}
	ErrInvalidSelector      = &DOMError{Name: "InvalidSelectorError"}
	ErrHierarchyRequest     = &DOMError{Name: "HierarchyRequestError"}
	ErrNotFound             = &DOMError{Name: "NotFoundError"}
	ErrInvalidCharacter     = &DOMError{Name: "InvalidCharacterError"}
	ErrSyntax               = &DOMError{Name: "SyntaxError"}
	ErrInUseAttribute       = &DOMError{Name: "InUseAttributeError"}
	ErrConfiguration        = &DOMError{Name: "ConfigurationError"}
	ErrIndexSize            = &DOMError{Name: "IndexSizeError"}
)

func errReadOnly(name string) *DOMError {
	return &DOMError{Name: ErrReadOnlyProperty.Name, Message: fmt.Sprintf("Cannot set property %q, it has no setter.", name)}
}

func errUnsupported(message string) *DOMError {
	return &DOMError{Name: ErrUnsupportedOperation.Name, Message: message}
}

func errHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: ErrHierarchyRequest.Name, Message: message}
}

func errNotFound(message string) *DOMError {
	return &DOMError{Name: ErrNotFound.Name, Message: message}
}

func errInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: ErrInvalidCharacter.Name, Message: message}
}

func errSyntax(message string) *DOMError {
	return &DOMError{Name: ErrSyntax.Name, Message: message}
}

func errInUseAttribute(message string) *DOMError {
	return &DOMError{Name: ErrInUseAttribute.Name, Message: message}
}

func errIndexSize(offset int) *DOMError {
	return &DOMError{Name: ErrIndexSize.Name, Message: fmt.Sprintf("The offset %d is larger than the data length.", offset)}
}

func errConfiguration(message string) *DOMError {
	return &DOMError{Name: ErrConfiguration.Name, Message: message}
}

// invalidSelector converts a compiler error into an InvalidSelectorError.
// Errors that are not selector syntax errors are returned unchanged.
func invalidSelector(err error) error {
	var se *css.SelectorError
	if !errors.As(err, &se) {
		return err
	}
	return &DOMError{
		Name:    ErrInvalidSelector.Name,
		Message: fmt.Sprintf("%q is not a valid selector: %s near %q at offset %d", se.Selector, se.Reason, se.Fragment, se.Offset),
		Err:     err,
	}
}
