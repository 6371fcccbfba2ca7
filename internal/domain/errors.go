package domain

// Error is a state-conflict or lookup failure with a stable machine-readable
// code, so callers branch on the code instead of matching message strings.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

var (
	ErrNoPackagesInStock  = &Error{Code: "NO_PACKAGES_IN_STOCK", Message: "no packages in stock to release"}
	ErrRestaurantNotFound = &Error{Code: "RESTAURANT_NOT_FOUND", Message: "restaurant not found or missing location"}
	ErrNoOSCAvailable     = &Error{Code: "NO_OSC_AVAILABLE", Message: "no eligible organization available"}
	ErrIntentNotFound     = &Error{Code: "INTENT_NOT_FOUND", Message: "invalid or unknown security code"}
	ErrIntentNotWaiting   = &Error{Code: "INTENT_NOT_WAITING", Message: "offer is not open for a response"}
	ErrIntentExpired      = &Error{Code: "INTENT_EXPIRED", Message: "offer has expired"}
	ErrWrongStatus        = &Error{Code: "WRONG_STATUS", Message: "donation not accepted or already picked up"}
)
