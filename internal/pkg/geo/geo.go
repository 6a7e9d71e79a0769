package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Location é o resultado da geolocalização de um IP; campos vazios
// quando o provedor não resolve.
type Location struct {
	Country string `json:"country"`
	Region  string `json:"regionName"`
}

// Locator define o contrato do colaborador de geolocalização.
// Falhas são engolidas pelos chamadores: a visita é registrada mesmo
// sem país/região.
type Locator interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

// HTTPLocator consulta uma API de geolocalização por IP via HTTP.
type HTTPLocator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPLocator cria o colaborador de geolocalização.
func NewHTTPLocator(baseURL string) *HTTPLocator {
	return &HTTPLocator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

// Lookup resolve país e região de um IP.
func (l *HTTPLocator) Lookup(ctx context.Context, ip string) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/"+ip, nil)
	if err != nil {
		return Location{}, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geolocalização respondeu %d", resp.StatusCode)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}
