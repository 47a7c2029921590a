package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrScanNotFound = errors.New("scan not found")

// Scan is a saved food-label analysis. Scans are immutable after creation:
// they are only listed or fetched by id, never updated.
type Scan struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
	ProductName string          `json:"product_name"`
	ImageURI    string          `json:"image_uri"`
	Analysis    json.RawMessage `json:"analysis_data"`
	CreatedAt   time.Time       `json:"created_at"`
}
