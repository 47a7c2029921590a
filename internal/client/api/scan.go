package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/aislescan/aislescan/internal/core/domain"
)

// SaveScanInput carries a completed analysis the user chose to keep.
type SaveScanInput struct {
	ProductName string
	ImageURI    string
	Analysis    *domain.Analysis
}

type saveScanBody struct {
	ProductName  string          `json:"product_name"`
	ImageURI     string          `json:"image_uri"`
	AnalysisData json.RawMessage `json:"analysis_data"`
}

type scanEnvelope struct {
	Success bool         `json:"success"`
	Scan    *domain.Scan `json:"scan"`
}

type scanListEnvelope struct {
	Success bool           `json:"success"`
	Scans   []*domain.Scan `json:"scans"`
}

// SaveScan persists an analysis as a scan record. Each call carries a
// fresh Idempotency-Key so a retried save cannot duplicate the record.
func (c *Client) SaveScan(ctx context.Context, input SaveScanInput) (*domain.Scan, error) {
	if input.ProductName == "" || input.ImageURI == "" || input.Analysis == nil {
		return nil, NewError(KindValidation, "product name, image URI, and analysis are required")
	}

	analysisJSON, err := json.Marshal(input.Analysis)
	if err != nil {
		return nil, WrapError(KindValidation, err, "encode analysis")
	}

	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, WrapError(KindUnauthenticated, err, "read credential store")
	}
	if token == "" {
		return nil, NewError(KindUnauthenticated, "not authenticated")
	}

	body := saveScanBody{
		ProductName:  input.ProductName,
		ImageURI:     input.ImageURI,
		AnalysisData: analysisJSON,
	}
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}

	var env scanEnvelope
	if err := c.doWithHeaders(ctx, http.MethodPost, "/api/scans", token, headers, body, &env); err != nil {
		return nil, err
	}
	if env.Scan == nil {
		return nil, NewError(KindServer, "save response carried no scan")
	}
	return env.Scan, nil
}

// ListScans fetches all scans belonging to the authenticated user.
func (c *Client) ListScans(ctx context.Context) ([]*domain.Scan, error) {
	var resp scanListEnvelope
	if err := c.authedDo(ctx, http.MethodGet, "/api/scans", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Scans, nil
}

// GetScan fetches a single scan by id. A scan owned by another account is
// indistinguishable from a missing one.
func (c *Client) GetScan(ctx context.Context, id int64) (*domain.Scan, error) {
	var resp scanEnvelope
	if err := c.authedDo(ctx, http.MethodGet, fmt.Sprintf("/api/scans/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Scan == nil {
		return nil, NewError(KindServer, "scan response carried no scan")
	}
	return resp.Scan, nil
}
