package files

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is a stored file summary.
type Analysis struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Type      string    `json:"type"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}
