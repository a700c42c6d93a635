package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/CORREAK18/Biometrico-App/internal/face"
)

const defaultTimeout = 30 * time.Second

// Client is a Detector backed by an HTTP landmark detection service.
type Client struct {
	parsedURL  *url.URL
	httpClient *http.Client
}

// NewClient creates a detector client for the given service base URL.
func NewClient(rawURL string) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid detector URL: %w", err)
	}
	return &Client{
		parsedURL:  parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// detectResponse mirrors the service's JSON payload. Landmarks arrive
// as a name to point map so unknown landmark names pass through and
// are simply ignored by feature extraction.
type detectResponse struct {
	Faces []struct {
		Box struct {
			Left   float64 `json:"left"`
			Top    float64 `json:"top"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		} `json:"boundingBox"`
		Landmarks               map[string]face.Point `json:"landmarks"`
		AngleX                  float64               `json:"headEulerAngleX"`
		AngleY                  float64               `json:"headEulerAngleY"`
		AngleZ                  float64               `json:"headEulerAngleZ"`
		SmilingProbability      *float64              `json:"smilingProbability"`
		LeftEyeOpenProbability  *float64              `json:"leftEyeOpenProbability"`
		RightEyeOpenProbability *float64              `json:"rightEyeOpenProbability"`
	} `json:"faces"`
}

// Detect posts the image to the service and returns one observation
// per detected face. Zero faces is not an error.
func (c *Client) Detect(ctx context.Context, image []byte) ([]face.Observation, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "photo.jpg")
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("could not write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	endpoint := c.parsedURL.JoinPath("v1", "detect").String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	var result detectResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}

	observations := make([]face.Observation, 0, len(result.Faces))
	for _, f := range result.Faces {
		obs := face.Observation{
			Box: face.Box{
				Left:   f.Box.Left,
				Top:    f.Box.Top,
				Width:  f.Box.Width,
				Height: f.Box.Height,
			},
			Landmarks:               make(map[face.Landmark]face.Point, len(f.Landmarks)),
			AngleX:                  f.AngleX,
			AngleY:                  f.AngleY,
			AngleZ:                  f.AngleZ,
			SmilingProbability:      f.SmilingProbability,
			LeftEyeOpenProbability:  f.LeftEyeOpenProbability,
			RightEyeOpenProbability: f.RightEyeOpenProbability,
		}
		for name, point := range f.Landmarks {
			obs.Landmarks[face.Landmark(name)] = point
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

// readErrorBody reads the response body for error messages.
// Returns a placeholder if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}
