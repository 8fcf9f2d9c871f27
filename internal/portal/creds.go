package portal

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const APP_CACHE_DIR string = "skyward_gpa_tui"
const CREDS_FILE string = "creds.gob"

// CredentialStore keeps remembered credentials in the user cache directory.
type CredentialStore struct {
	Dir string
}

func DefaultCredentialStore() (CredentialStore, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return CredentialStore{}, fmt.Errorf("failed to get user cache dir: %w", err)
	}
	return CredentialStore{Dir: filepath.Join(dir, APP_CACHE_DIR)}, nil
}

func (s CredentialStore) path() string {
	return filepath.Join(s.Dir, CREDS_FILE)
}

func (s CredentialStore) Save(creds Credentials) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	file, err := os.OpenFile(s.path(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create creds file: %w", err)
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(creds)
}

func (s CredentialStore) Load() (Credentials, error) {
	file, err := os.Open(s.path())
	if err != nil {
		return Credentials{}, err
	}
	defer file.Close()

	var creds Credentials
	err = gob.NewDecoder(file).Decode(&creds)
	return creds, err
}

func (s CredentialStore) Delete() error {
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
