package shelterapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shelter-vax-bot/internal/domain/animals"
	"shelter-vax-bot/internal/domain/vaccines"
	"shelter-vax-bot/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("shelter api client not configured")
	ErrUnauthorized  = errors.New("shelter api unauthorized")
	ErrUpstream      = errors.New("shelter api upstream error")
)

const (
	defaultPageSize = 100
	maxPages        = 1000 // corta un has_more que nunca baja
)

// Config del cliente del API del refugio.
// BaseURL y APIKey normalmente vienen de la config/env.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde viaja la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout  time.Duration
	PageSize int
}

// Client habla con el API del refugio: el feed org-wide de vacunas
// agendadas, el historial por animal y el lookup de identidad.
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
	pageSize     int
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	size := cfg.PageSize
	if size <= 0 {
		size = defaultPageSize
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		pageSize:     size,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// recordsPage es la forma paginada de ambos feeds de vacunas.
type recordsPage struct {
	Records []vaccines.RawRecord `json:"records"`
	HasMore bool                 `json:"has_more"`
}

// ScheduledVaccines trae el feed org-wide de vacunas agendadas, página por
// página hasta agotar has_more. El feed puede venir desordenado y con IDs
// duplicados; eso lo resuelve el reconciliador, no este cliente.
func (c *Client) ScheduledVaccines(ctx context.Context) ([]vaccines.RawRecord, error) {
	return c.pagedRecords(ctx, "/v1/vaccines/scheduled")
}

// AnimalVaccines trae el historial completo (completadas + agendadas) de un
// animal puntual.
func (c *Client) AnimalVaccines(ctx context.Context, animalID string) ([]vaccines.RawRecord, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, fmt.Errorf("%w: empty animal id", ErrUpstream)
	}
	return c.pagedRecords(ctx, "/v1/animals/"+url.PathEscape(animalID)+"/vaccines")
}

func (c *Client) pagedRecords(ctx context.Context, path string) ([]vaccines.RawRecord, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	var out []vaccines.RawRecord
	offset := 0

	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(c.pageSize))

		var resp recordsPage
		if err := c.http.GetJSON(ctx, path+"?"+q.Encode(), c.headers(), &resp); err != nil {
			return nil, c.mapError(err)
		}

		out = append(out, resp.Records...)
		if !resp.HasMore {
			return out, nil
		}
		offset += c.pageSize
	}

	return nil, fmt.Errorf("%w: pagination never terminated for %s", ErrUpstream, path)
}

// animalResponse es la identidad que expone el lookup.
type animalResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

// Animal implementa animals.Directory. Un 404 se mapea a animals.ErrNotFound
// para que aguas arriba sea un skip suave, no un error de la corrida.
func (c *Client) Animal(ctx context.Context, id string) (animals.Animal, error) {
	if !c.IsConfigured() {
		return animals.Animal{}, ErrNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	var resp animalResponse
	err := c.http.GetJSON(ctx, "/v1/animals/"+url.PathEscape(id), c.headers(), &resp)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, c.mapError(err)
	}

	if strings.TrimSpace(resp.ID) == "" {
		resp.ID = id
	}
	return animals.Animal{
		ID:       strings.TrimSpace(resp.ID),
		Name:     strings.TrimSpace(resp.Name),
		PhotoURL: strings.TrimSpace(resp.PhotoURL),
	}, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{c.apiKeyHeader: c.apiKey}
}

func (c *Client) mapError(err error) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrUnauthorized
		default:
			return fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
