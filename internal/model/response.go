package model

// Response is the body returned for failed API calls.
type Response struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewErrorResponse(kind, message string, data interface{}) *Response {
	return &Response{
		Error:   kind,
		Message: message,
		Data:    data,
	}
}
