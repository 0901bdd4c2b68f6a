// internal/action/types.go
package action

// GetResponse is the action descriptor returned on GET/OPTIONS.
type GetResponse struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Label       string `json:"label"`
	Links       *Links `json:"links,omitempty"`
}

// Links wraps the actionable links of a descriptor.
type Links struct {
	Actions []LinkedAction `json:"actions"`
}

// LinkedAction is one actionable link in the descriptor.
type LinkedAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Type  string `json:"type"`
}

// PostRequest is the body of an action POST.
type PostRequest struct {
	Account string `json:"account"`
}

// PostResponse carries the serialized unsigned transaction back to the
// wallet for signing.
type PostResponse struct {
	Type        string `json:"type"`
	Transaction string `json:"transaction"`
	Message     string `json:"message,omitempty"`
}

// ErrorResponse is the structured error body used on every failure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
}

// TypeTransaction is the declared type of every actionable link and
// response in this service.
const TypeTransaction = "transaction"
