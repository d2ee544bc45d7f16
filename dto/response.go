package dto

// Envelope is the uniform response shape on every endpoint. Code is set for
// machine-readable rejections (taskrule codes) so clients can branch without
// matching message text.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

func FailCode(message, code string) Envelope {
	return Envelope{Success: false, Message: message, Code: code}
}
