// Package sandbox runs candidate code on a Piston-compatible execution service.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mock_interview_backend/internal/util"
)

type Runner interface {
	Run(ctx context.Context, language, code string) (string, error)
}

type file struct {
	Content string `json:"content"`
}

type executeRequest struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Files    []file `json:"files"`
}

type executeResponse struct {
	Run *struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Output string `json:"output"`
		Code   *int   `json:"code"`
	} `json:"run"`
	Message string `json:"message"`
}

type PistonClient struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewPistonClient(url string, timeout time.Duration, client *http.Client) *PistonClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}
	return &PistonClient{url: url, timeout: timeout, client: client}
}

// Run 只接受 java / cpp，其它语言不发请求直接返回 ErrUnsupportedLanguage
func (p *PistonClient) Run(ctx context.Context, language, code string) (string, error) {
	if !util.IsSupportedLanguage(language) {
		return "", fmt.Errorf("%w: %s", util.ErrUnsupportedLanguage, language)
	}

	body, err := json.Marshal(executeRequest{
		Language: language,
		Version:  "*",
		Files:    []file{{Content: code}},
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: sandbox: %v", util.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: sandbox: %v", util.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: sandbox: %v", util.ErrUpstream, err)
	}

	var out executeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: status %d", util.ErrExecutionFailed, resp.StatusCode)
	}
	if out.Run == nil || out.Run.Output == "" {
		if out.Message != "" {
			return "", fmt.Errorf("%w: %s", util.ErrExecutionFailed, out.Message)
		}
		return "", util.ErrExecutionFailed
	}
	return out.Run.Output, nil
}
