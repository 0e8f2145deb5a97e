package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const nominatimURL = "https://nominatim.openstreetmap.org/reverse"

var geocodeClient = &http.Client{Timeout: 8 * time.Second}

// ReverseGeocode resolves a human-readable place name for a coordinate pair
// via Nominatim. The name is display-only; callers treat "" as "no name" and
// never fail an operation over it.
func ReverseGeocode(lat, lng float64) string {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lng))
	q.Set("zoom", "16")
	q.Set("addressdetails", "1")

	req, err := http.NewRequest(http.MethodGet, nominatimURL+"?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "AttendanceApp/1.0 (Contact: admin@example.com)")

	resp, err := geocodeClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.DisplayName
}
