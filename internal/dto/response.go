package dto

// Envelope is the uniform response shape for every endpoint:
// {success: bool, data?, message?}. Non-2xx responses always carry a
// human-readable message.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK wraps a successful payload.
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage wraps a successful payload with an accompanying message.
func OKMessage(data interface{}, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

// Fail wraps an error message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
