package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

var scopes = []string{sheets.SpreadsheetsScope, drive.DriveScope}

// serviceAccountJSON returns the key payload. Inline JSON wins over a file.
func serviceAccountJSON(cfg Config) ([]byte, error) {
	switch {
	case cfg.ServiceAccountInfo != "":
		return []byte(cfg.ServiceAccountInfo), nil
	case cfg.ServiceAccountFile != "":
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("google service account credentials not configured")
	}
}

func loadCredentials(ctx context.Context, cfg Config) (*google.Credentials, error) {
	data, err := serviceAccountJSON(cfg)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	return creds, nil
}
