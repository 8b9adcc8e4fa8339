package platform

import (
	"context"
	"encoding/json"
	"strings"
)

// UploadObject writes an object to the given bucket. Paths are never
// overwritten (x-upsert false); a colliding path is an upstream error.
func (c *Client) UploadObject(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetHeader("Cache-Control", "3600").
		SetBody(data)

	resp, err := req.Post("/storage/v1/object/" + bucket + "/" + objectPath)
	if err != nil {
		return &Error{Status: 0, Message: err.Error()}
	}
	if resp.IsError() {
		return parseErrorBody(resp.StatusCode(), resp.Body())
	}
	return nil
}

// CreateSignedURL requests a time-limited access URL for an object path.
// The returned URL is absolute.
func (c *Client) CreateSignedURL(ctx context.Context, bucket, objectPath string, expiresIn int) (string, error) {
	body := map[string]int{"expiresIn": expiresIn}
	resp, err := c.do(ctx, "POST", "/storage/v1/object/sign/"+bucket+"/"+objectPath, nil, nil, body)
	if err != nil {
		return "", err
	}

	var payload struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", &Error{Status: resp.StatusCode(), Message: "malformed signing response: " + err.Error()}
	}
	if payload.SignedURL == "" {
		return "", &Error{Status: resp.StatusCode(), Message: "signing response contained no URL"}
	}
	if strings.HasPrefix(payload.SignedURL, "http") {
		return payload.SignedURL, nil
	}
	return c.BaseURL() + "/storage/v1" + payload.SignedURL, nil
}
