package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is used where only a message and status are returned.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
