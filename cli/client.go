package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// ApiClient handles API requests to the warehouse free-space API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("WARESPACE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// Location mirrors the API's location payload
type Location struct {
	ID          string `json:"id"`
	AreaID      string `json:"area_id"`
	AreaType    string `json:"area_type"`
	LengthMM    int    `json:"length_mm"`
	WidthMM     int    `json:"width_mm"`
	HeightMM    int    `json:"height_mm"`
	MaxWeightKG int    `json:"max_weight_kg"`
	Status      string `json:"status"`
	GroupID     string `json:"group_id"`
}

// Reservation mirrors the API's reservation payload
type Reservation struct {
	ID          string   `json:"id"`
	LocationIDs []string `json:"location_ids"`
	Ref         string   `json:"ref,omitempty"`
	Status      string   `json:"status"`
}

type locationsResponse struct {
	Count int        `json:"count"`
	Items []Location `json:"items"`
}

type locationResponse struct {
	OK       bool     `json:"ok"`
	Location Location `json:"location"`
}

type moveResponse struct {
	OK   bool     `json:"ok"`
	From Location `json:"from"`
	To   Location `json:"to"`
}

type reserveResponse struct {
	OK          bool        `json:"ok"`
	Reservation Reservation `json:"reservation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CheckHealth returns the number of loaded locations
func (c *ApiClient) CheckHealth() (int, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	var body struct {
		OK        bool `json:"ok"`
		Locations int  `json:"locations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	return body.Locations, nil
}

// GetLocations queries the catalogue with the given filter parameters
func (c *ApiClient) GetLocations(params url.Values) ([]Location, int, error) {
	u := c.BaseURL + "/locations"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, err := c.httpClient.Get(u)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, decodeError(resp)
	}

	var body locationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, err
	}
	return body.Items, body.Count, nil
}

// Reserve places a hold over the given locations
func (c *ApiClient) Reserve(id string, locationIDs []string, ref string) (*Reservation, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"id":           id,
		"location_ids": locationIDs,
		"ref":          ref,
	})

	resp, err := c.httpClient.Post(c.BaseURL+"/reserve", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var body reserveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &body.Reservation, nil
}

// Occupy puts a pallet into a location
func (c *ApiClient) Occupy(locationID, palletRef string) (*Location, error) {
	u := fmt.Sprintf("%s/occupy/%s", c.BaseURL, url.PathEscape(locationID))
	if palletRef != "" {
		u += "?pallet_ref=" + url.QueryEscape(palletRef)
	}
	return c.postLocation(u)
}

// Free releases a location back to FREE
func (c *ApiClient) Free(locationID string) (*Location, error) {
	return c.postLocation(fmt.Sprintf("%s/free/%s", c.BaseURL, url.PathEscape(locationID)))
}

func (c *ApiClient) postLocation(u string) (*Location, error) {
	resp, err := c.httpClient.Post(u, "application/json", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var body locationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &body.Location, nil
}

// Move relocates a pallet between two locations
func (c *ApiClient) Move(fromID, toID, palletRef string) (*Location, *Location, error) {
	params := url.Values{}
	params.Set("from_location_id", fromID)
	params.Set("to_location_id", toID)
	if palletRef != "" {
		params.Set("pallet_ref", palletRef)
	}

	resp, err := c.httpClient.Post(c.BaseURL+"/move?"+params.Encode(), "application/json", nil)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, decodeError(resp)
	}

	var body moveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil, err
	}
	return &body.From, &body.To, nil
}

func decodeError(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s (status %d)", body.Error, resp.StatusCode)
	}
	return fmt.Errorf("request failed with status code: %d", resp.StatusCode)
}
