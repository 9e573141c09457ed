package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"
)

const defaultCloudinaryBaseURL = "https://api.cloudinary.com"

type CloudinaryClient struct {
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	now        func() time.Time
}

func NewCloudinaryClient(baseURL, cloudName, apiKey, apiSecret string, httpClient *http.Client) *CloudinaryClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = defaultCloudinaryBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CloudinaryClient{
		baseURL:    trimmed,
		cloudName:  strings.TrimSpace(cloudName),
		apiKey:     strings.TrimSpace(apiKey),
		apiSecret:  strings.TrimSpace(apiSecret),
		httpClient: httpClient,
		now:        time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload stores data under a timestamp-prefixed public id in the cv folder
// using Cloudinary's signed upload endpoint.
func (c *CloudinaryClient) Upload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	timestamp := c.now().UTC().Unix()
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	publicID := fmt.Sprintf("cv/%d-%s", timestamp, base)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", path.Base(fileName))
	if err != nil {
		return nil, fmt.Errorf("create upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write upload form: %w", err)
	}
	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": strconv.FormatInt(timestamp, 10),
		"public_id": publicID,
		"signature": c.sign(publicID, timestamp),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write upload field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/auto/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send upload request: %w", err)
	}
	defer resp.Body.Close()
	payloadBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(payloadBytes))
		if message == "" {
			return nil, fmt.Errorf("upload api error: status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("upload api error: status %d: %s", resp.StatusCode, message)
	}
	var parsed uploadResponse
	if err := json.Unmarshal(payloadBytes, &parsed); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &UploadResult{
		FileName: path.Base(fileName),
		URL:      parsed.SecureURL,
		PublicID: parsed.PublicID,
	}, nil
}

// sign builds the Cloudinary request signature: the SHA-1 hex digest of the
// alphabetically ordered parameters concatenated with the API secret.
func (c *CloudinaryClient) sign(publicID string, timestamp int64) string {
	toSign := fmt.Sprintf("public_id=%s&timestamp=%d%s", publicID, timestamp, c.apiSecret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
