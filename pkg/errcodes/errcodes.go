package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Quotes.
	NoEligibleQuotes     failure.ErrorCode = "NoEligibleQuotes"     // nothing to analyze, not zero savings
	InvalidPrice         failure.ErrorCode = "InvalidPrice"         // amount is blank, negative or not a number
	InvalidPortal        failure.ErrorCode = "InvalidPortal"        // portal outside the known set
	InvalidCarrier       failure.ErrorCode = "InvalidCarrier"       // carrier unknown or not permitted by the portal
	InvalidQuoteID       failure.ErrorCode = "InvalidQuoteID"       // quote id not part of the set
	InconsistentDecision failure.ErrorCode = "InconsistentDecision" // selected quote priced above the worst one

	// Shipments.
	InvalidShipmentID failure.ErrorCode = "InvalidShipmentID"
	InvalidStatus     failure.ErrorCode = "InvalidStatus"
	ShipmentNotFound  failure.ErrorCode = "ShipmentNotFound"

	// Storage.
	BackendUnavailable failure.ErrorCode = "BackendUnavailable" // remote store failed, masked by the local fallback
	PersistenceFailure failure.ErrorCode = "PersistenceFailure" // local store failed, nothing left to fall back to
)
