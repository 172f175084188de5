package httpx

import (
	"fmt"
	"net/http"
)

// jsonError is the wire shape of a JSON-rendered error body.
type jsonError struct {
	Message string `json:"message"`
}

// ErrorResponse is an error value carrying enough structure to render a
// well-formed response: a status code, a human-readable message and
// optional extra headers. Handlers and middleware return it to
// short-circuit with a specific status; the dispatcher converts any other
// error into a generic 500.
type ErrorResponse struct {
	status  int
	message string
	header  http.Header
}

// NewError returns an ErrorResponse with the given status code.
func NewError(status int) *ErrorResponse {
	return &ErrorResponse{
		status: status,
		header: make(http.Header),
	}
}

// WithMessage sets the message included in the response body.
func (e *ErrorResponse) WithMessage(message string) *ErrorResponse {
	e.message = message
	return e
}

// WithHeader sets an extra header included in the response.
func (e *ErrorResponse) WithHeader(key, value string) *ErrorResponse {
	e.header.Set(key, value)
	return e
}

// Status returns the status code.
func (e *ErrorResponse) Status() int {
	return e.status
}

// Message returns the configured message, falling back to the standard
// status text when empty.
func (e *ErrorResponse) Message() string {
	if e.message == "" {
		return http.StatusText(e.status)
	}
	return e.message
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%d: %s", e.status, e.Message())
}

// Response renders the error as a Response. When wantsJSON is true the
// body is the JSON object {"message": "…"}; otherwise it is plain text.
// Extra headers are copied onto the response in both cases.
func (e *ErrorResponse) Response(wantsJSON bool) *Response {
	resp := NewResponse().WithStatus(e.status)
	for key, values := range e.header {
		for _, value := range values {
			resp.AddHeader(key, value)
		}
	}

	if !wantsJSON {
		return resp.Text(e.Message())
	}

	body, err := json.Marshal(jsonError{Message: e.Message()})
	if err != nil {
		body = []byte(fmt.Sprintf(`{ "message": %q }`, e.Message()))
	}
	resp.Header().Set("Content-Type", "application/json")
	return resp.WithBody(body)
}
