package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"
)

var ErrUploadFailed = errors.New("image upload failed")

// Uploader posts images to an unsigned-upload endpoint
// (Cloudinary style: file + upload_preset + cloud_name -> secure_url).
type Uploader struct {
	URL       string
	CloudName string
	Preset    string
	HTTP      *http.Client
}

func New(url, cloudName, preset string, timeout time.Duration) *Uploader {
	return &Uploader{
		URL:       url,
		CloudName: cloudName,
		Preset:    preset,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

type uploadResp struct {
	SecureURL string `json:"secure_url"`
}

// Upload returns the hosted image's secure URL.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("%w: read image: %v", ErrUploadFailed, err)
	}
	_ = mw.WriteField("upload_preset", u.Preset)
	_ = mw.WriteField("cloud_name", u.CloudName)
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.URL, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}
	var out uploadResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUploadFailed, err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("%w: no secure_url in response", ErrUploadFailed)
	}
	return out.SecureURL, nil
}
