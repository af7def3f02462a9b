// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads the credentials an alert run can use from a
// directory of plain-text files, one file per secret. Every credential is
// optional; each consumer degrades without it (no mail without the app
// password, no translation without the DeepL key, the lower NCBI rate
// without the API key).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File names under the secrets directory.
const (
	fileGmailAppPassword = "gmail-app-password"
	fileDeepLAuthKey     = "deepl-auth-key"
	fileNCBIAPIKey       = "ncbi-api-key"
	fileContactEmail     = "contact-email"
)

// Secrets holds the loaded credentials. Zero value means none found.
type Secrets struct {
	// GmailAppPassword authenticates SMTP delivery of the digest.
	GmailAppPassword string

	// DeepLAuthKey enables abstract translation.
	DeepLAuthKey string

	// NCBIAPIKey raises the E-utilities rate limit from 3 to 10
	// requests per second.
	NCBIAPIKey string

	// ContactEmail identifies the operator to Crossref and NCBI.
	ContactEmail string
}

// Load reads the known secret files from dir. A missing directory or
// missing files leave the corresponding fields empty; an unreadable file
// produces a warning on stderr and is skipped. Values are whitespace-trimmed.
func Load(dir string) Secrets {
	var s Secrets
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{fileGmailAppPassword, &s.GmailAppPassword},
		{fileDeepLAuthKey, &s.DeepLAuthKey},
		{fileNCBIAPIKey, &s.NCBIAPIKey},
		{fileContactEmail, &s.ContactEmail},
	} {
		value, err := readSecret(filepath.Join(dir, f.name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", f.name, err)
			continue
		}
		*f.dst = value
	}
	return s
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
