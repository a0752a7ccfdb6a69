// Package credentials resolves Google service-account credentials from the environment.
package credentials

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Source describes the configured credential material. Methods are tried in
// field order: inline JSON, base64-encoded JSON, then a file path.
type Source struct {
	JSON   string
	Base64 string
	File   string
}

// Method identifies which credential method produced the client options.
type Method string

const (
	MethodJSON   Method = "json"
	MethodBase64 Method = "base64"
	MethodFile   Method = "file"
	MethodADC    Method = "adc"
)

var errNotServiceAccount = errors.New("credentials JSON has no \"type\" field")

// GoogleClientOptions returns client options for the first usable method in src.
// A method that fails to parse is logged and the next one is tried. When none
// is usable, nil options are returned so the client falls back to ADC.
func GoogleClientOptions(src Source, logger *zap.Logger) ([]option.ClientOption, Method) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if raw := strings.TrimSpace(src.JSON); raw != "" {
		b, err := validateJSON([]byte(raw))
		if err == nil {
			return []option.ClientOption{option.WithCredentialsJSON(b)}, MethodJSON
		}
		logger.Warn("ignoring inline google credentials", zap.Error(err))
	}

	if enc := strings.TrimSpace(src.Base64); enc != "" {
		b, err := decodeBase64JSON(enc)
		if err == nil {
			return []option.ClientOption{option.WithCredentialsJSON(b)}, MethodBase64
		}
		logger.Warn("ignoring base64 google credentials", zap.Error(err))
	}

	if path := strings.TrimSpace(src.File); path != "" {
		_, err := os.Stat(path)
		if err == nil {
			return []option.ClientOption{option.WithCredentialsFile(path)}, MethodFile
		}
		logger.Warn("ignoring google credentials file", zap.String("path", path), zap.Error(err))
	}

	return nil, MethodADC
}

func decodeBase64JSON(enc string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 credentials: %w", err)
	}
	return validateJSON(b)
}

func validateJSON(b []byte) ([]byte, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("parsing credentials JSON: %w", err)
	}
	if probe.Type == "" {
		return nil, errNotServiceAccount
	}
	return b, nil
}
