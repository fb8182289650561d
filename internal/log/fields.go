package log

// Common field names for structured logging
const (
	FieldComponent      = "component"
	FieldRequestID      = "request_id"
	FieldClientIP       = "client_ip"
	FieldMethod         = "method"
	FieldPath           = "path"
	FieldStatusCode     = "status_code"
	FieldDuration       = "duration_ms"
	FieldError          = "error"
	FieldOperation      = "operation"
	FieldYear           = "year"
	FieldMonth          = "month"
	FieldCollaboratorID = "collaborator_id"
	FieldMissionID      = "mission_id"
	FieldReport         = "report"
	FieldBucket         = "bucket"
	FieldCategory       = "category"
	FieldQuantityHours  = "quantity_hours"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentReport  = "report"
	ComponentDrive   = "drive"
	ComponentInvoice = "invoice"
	ComponentCRA     = "cra"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpList     = "list"
	OpRender   = "render"
	OpUpload   = "upload"
	OpCleanup  = "cleanup"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
