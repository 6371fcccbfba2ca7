package dto

// CodeRequest carries the bearer capability for recipient-side actions.
type CodeRequest struct {
	SecurityCode string `json:"security_code"`
}
