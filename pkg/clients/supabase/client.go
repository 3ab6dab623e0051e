package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/progresspro/client-registration/pkg/models"
)

// Client defines the interface for inserting rows through the Supabase REST API
type Client interface {
	CreateRecord(ctx context.Context, record models.RegistrationRecord) (*models.RegistrationRecord, error)
}

// APIError is the error body PostgREST returns on a rejected request
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.StatusCode)
}

type clientImpl struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
}

// NewClient creates a new Supabase client for a single table. A nil
// httpClient means http.DefaultClient.
func NewClient(baseURL, apiKey, table string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &clientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		table:      table,
		httpClient: httpClient,
	}
}

// CreateRecord inserts one row and returns it as stored
func (c *clientImpl) CreateRecord(ctx context.Context, record models.RegistrationRecord) (*models.RegistrationRecord, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(c.table))

	jsonPayload, err := json.Marshal([]models.RegistrationRecord{record})
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("apikey", c.apiKey)
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")
	// Single row back, as select().single() would ask for
	req.Header.Add("Accept", "application/vnd.pgrst.object+json")
	req.Header.Add("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error creating Supabase record: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}

	var created models.RegistrationRecord
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	log.Printf("Successfully created record %s in Supabase table: %s", created.ID, c.table)
	return &created, nil
}
