package entity

type ImportStatus string

const (
	ImportStatusQueued     ImportStatus = "QUEUED"
	ImportStatusProcessing ImportStatus = "PROCESSING"
	ImportStatusDone       ImportStatus = "DONE"
	ImportStatusFailed     ImportStatus = "FAILED"
)

// OrderStatusCreated is stored when an uploaded row leaves the status column blank.
const OrderStatusCreated = "CREATED"

type FileFormat string

const (
	FileFormatXLSX FileFormat = "xlsx"
	FileFormatCSV  FileFormat = "csv"
)
