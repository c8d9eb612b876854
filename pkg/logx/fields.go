package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldBackend         = "backend"
	FieldConnection      = "connection"
	FieldCountry         = "country"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldOperation       = "operation"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldShipmentID      = "shipment-id"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldTrackingCode    = "tracking-code"
	FieldURL             = "url"
)
