// Package ecode defines business error codes shared by the response layer.
package ecode

// Business codes. Zero means success.
const (
	Success      = 0
	RequestErr   = 400
	Unauthorized = 401
	AccessDenied = 403
	NothingFound = 404
	Conflict     = 409
	LimitExceed  = 429
	ServerErr    = 500
)

var messages = map[int]string{
	Success:      "success",
	RequestErr:   "request error",
	Unauthorized: "unauthorized",
	AccessDenied: "access denied",
	NothingFound: "not found",
	Conflict:     "already exists",
	LimitExceed:  "too many requests",
	ServerErr:    "server error",
}

// Text returns the message registered for a code.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}
