// Package services defines the business logic for the workshop: clients,
// vehicles, the brand/model catalog, service types, cases, and the diagnostic
// intake workflow. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotFound indicates the requested client does not exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrVehicleNotFound indicates the requested vehicle does not exist.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrCaseNotFound indicates the requested case does not exist.
	ErrCaseNotFound = errors.New("case not found")

	// ErrServiceTypeNotFound indicates the requested service type does not
	// exist.
	ErrServiceTypeNotFound = errors.New("service type not found")

	// ErrBillNotFound indicates the requested bill does not exist.
	ErrBillNotFound = errors.New("bill not found")

	// ErrMissingFields is returned when a create/update payload lacks one of
	// its mandatory fields.
	ErrMissingFields = errors.New("required fields missing")

	// ErrSearchTooShort is returned when a search term is shorter than the
	// two-character minimum.
	ErrSearchTooShort = errors.New("search term must be at least 2 characters")

	// ErrMissingSearchInput is returned by intake verification when neither a
	// phone number nor a plate was provided.
	ErrMissingSearchInput = errors.New("phone or plate required")

	// ErrVehicleClientMismatch is returned when the referenced vehicle does
	// not belong to the referenced client.
	ErrVehicleClientMismatch = errors.New("vehicle does not belong to client")

	// ErrDuplicatePlate is returned when a vehicle with the same plate
	// already exists.
	ErrDuplicatePlate = errors.New("plate already registered")

	// ErrDuplicateName is returned when a catalog entry with the same
	// normalized name already exists.
	ErrDuplicateName = errors.New("name already registered")

	// ErrServiceTypeInUse is returned when deleting a service type that is
	// still referenced by case line items.
	ErrServiceTypeInUse = errors.New("service type is referenced by cases")

	// ErrInvalidAmount is returned when a monetary amount is missing, zero,
	// or negative where a positive value is required.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidPrice is returned when a service-type price is negative.
	ErrInvalidPrice = errors.New("price must be zero or positive")

	// ErrNoServices is returned when a case is created without line items.
	ErrNoServices = errors.New("at least one service required")

	// ErrNotAMechanic is returned when the user named as acting mechanic
	// exists but is not of type MECHANIC.
	ErrNotAMechanic = errors.New("user is not a mechanic")

	// ErrNoUsers indicates the users table is empty, so no acting agent can
	// be determined.
	ErrNoUsers = errors.New("no users configured")
)

// UnknownServiceTypesError reports the service-type ids of a case payload
// that do not exist. The ids keep the caller's order.
type UnknownServiceTypesError struct {
	IDs []int
}

func (e *UnknownServiceTypesError) Error() string {
	return fmt.Sprintf("unknown service types: %v", e.IDs)
}

// Is makes errors.Is(err, ErrServiceTypeNotFound) match, so callers can treat
// the typed error as a not-found class without unpacking the ids.
func (e *UnknownServiceTypesError) Is(target error) bool {
	return target == ErrServiceTypeNotFound
}
