package loggers

const (
	FieldApp       = "app"
	FieldComponent = "component"

	FieldRunID     = "run_id"
	FieldRequestID = "request_id"
	FieldSource    = "source"
	FieldLine      = "line"
	FieldReason    = "reason"
	FieldReport    = "report"
	FieldPartition = "partition"

	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"
)
