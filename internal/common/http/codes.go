package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeMissingFields    = "MISSING_FIELDS"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
)
