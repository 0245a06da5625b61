package transport

// Envelope wraps every JSON response, success or error.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  *Fault `json:"error,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

// Fault is the error body of a failed request.
type Fault struct {
	Message string `json:"message"`
}

// ListMeta accompanies task listings.
type ListMeta struct {
	Count int    `json:"count"`
	Query string `json:"query,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data any, meta any) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, message string, meta any) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  &Fault{Message: message},
		Meta:   meta,
	}
}
