package admin

import (
	"fmt"
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
)

// Statistics is the manager-panel dashboard snapshot.
type Statistics struct {
	Customers      int64            `json:"customers"`
	Orders         int64            `json:"orders"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	Calculations   int64            `json:"calculations"`
	Revenue        int64            `json:"revenue"`
}

// Export is the full data dump served as a downloadable JSON document.
// Passwords are included as stored; the export is admin-only.
type Export struct {
	GeneratedAt  time.Time            `json:"generatedAt"`
	Users        []models.User        `json:"users"`
	Orders       []models.Order       `json:"orders"`
	Calculations []models.Calculation `json:"calculations"`
}

// ExportFilename names the download after the day it was generated.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("printhub_data_%s.json", now.Format("2006-01-02"))
}

// ClearRequest carries the confirmation phrase for the destructive wipe.
type ClearRequest struct {
	Confirm string `json:"confirm"`
}

// ClearResult reports what the wipe removed.
type ClearResult struct {
	RemovedUsers int `json:"removedUsers"`
}
