package entity

type ImportJob struct {
	ID        string
	FileName  string
	Status    ImportStatus
	Err       string
	StartedAt int64
	EndedAt   int64

	Result ImportResult
}
