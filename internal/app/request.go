package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/oshokin/traffic-logger/internal/client"
	"github.com/oshokin/traffic-logger/internal/config"
	"github.com/oshokin/traffic-logger/internal/logger"
)

// RequestArgs describes one request sent by the request command.
type RequestArgs struct {
	// Method is the HTTP method.
	Method string
	// URL is the absolute request URL.
	URL string
	// Headers are "Name: value" pairs.
	Headers []string
	// Data is the request body, "@path" reads it from a file.
	Data string
}

// Static error definitions for better error handling.
var (
	// ErrInvalidHeader indicates that a header is not in "Name: value" form.
	ErrInvalidHeader = errors.New("header must be in 'Name: value' form")
	// ErrInvalidVariable indicates that a variable is not in "name=value" form.
	ErrInvalidVariable = errors.New("variable must be in 'name=value' form")
)

// ExecuteRequestCommand sends one request with the configured client and
// writes the response body to stdout. The traffic goes to the configured output.
func ExecuteRequestCommand(ctx context.Context, cfg *config.Config, args RequestArgs, streams Streams) error {
	header, err := parseHeaders(args.Headers)
	if err != nil {
		return err
	}

	body, err := readData(args.Data)
	if err != nil {
		return err
	}

	t, err := newTraffic(cfg, streams)
	if err != nil {
		return fmt.Errorf("failed to configure traffic printer: %w", err)
	}

	httpClient, err := client.New(cfg.Client, t.clientOptions(cfg))
	if err != nil {
		return errors.Join(fmt.Errorf("failed to create %s client: %w", cfg.Client, err), t.close(ctx))
	}

	return errors.Join(sendRequest(ctx, httpClient, &client.Request{
		Method: strings.ToUpper(args.Method),
		URL:    args.URL,
		Header: header,
		Body:   body,
	}, streams.Stdout), t.close(ctx))
}

// sendRequest sends req and copies the response body to out.
func sendRequest(ctx context.Context, httpClient client.Client, req *client.Request, out io.Writer) error {
	resp, err := httpClient.Do(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Warnf(ctx, "Server responded with %s", resp.Status)
	}

	if _, err = out.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write response body: %w", err)
	}

	if resp.Truncated {
		logger.Warnf(ctx, "Response body was cut at %d bytes", len(resp.Body))
	}

	return nil
}

// parseHeaders converts "Name: value" pairs into a header.
func parseHeaders(pairs []string) (http.Header, error) {
	header := make(http.Header, len(pairs))

	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, ":")

		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidHeader, pair)
		}

		header.Add(name, strings.TrimSpace(value))
	}

	return header, nil
}

// readData returns data as bytes, reading the file when it starts with "@".
func readData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}

	path, isFile := strings.CutPrefix(data, "@")
	if !isFile {
		return []byte(data), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body from file: %w", err)
	}

	return content, nil
}
