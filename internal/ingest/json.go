package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadCompanies decodes a JSON array of company records from path.
func ReadCompanies(path string) ([]CompanyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read companies: %w", err)
	}
	var records []CompanyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ingest: decode companies: %w", err)
	}
	return records, nil
}

// ReadUsers decodes a JSON array of user records from path.
func ReadUsers(path string) ([]UserRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read users: %w", err)
	}
	var records []UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ingest: decode users: %w", err)
	}
	return records, nil
}
