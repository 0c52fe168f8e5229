package entity

import "fmt"

// ImportStatistics is a point-in-time view of a running import.
// SuccessCount + FailCount always equals TotalCount.
type ImportStatistics struct {
	TotalCount       int64
	SuccessCount     int64
	FailCount        int64
	TotalBatches     int64
	CompletedBatches int64
}

type ImportResult struct {
	TotalCount   int64
	SuccessCount int64
	FailCount    int64
	TotalBatches int64
	TotalTimeMs  int64
	Error        string
}

func (r ImportResult) Description() string {
	if r.Error != "" {
		return fmt.Sprintf("import aborted: %s (processed %d rows, %d succeeded, %d failed in %dms)",
			r.Error, r.TotalCount, r.SuccessCount, r.FailCount, r.TotalTimeMs)
	}

	return fmt.Sprintf("imported %d rows in %d batches: %d succeeded, %d failed in %dms",
		r.TotalCount, r.TotalBatches, r.SuccessCount, r.FailCount, r.TotalTimeMs)
}
