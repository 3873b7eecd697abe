package store

import (
	"database/sql"
	"log/slog"
	"strconv"
)

const defaultTaxRate = 0.10

func (s *Store) Setting(key string) (string, error) {
	var value string
	err := s.DB.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.DB.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// TaxRate reads the configured tax rate (e.g. "0.10"). A missing or
// unparseable value falls back to the default rather than blocking a close.
func (s *Store) TaxRate() (float64, error) {
	value, err := s.Setting("tax_rate")
	if err == ErrNotFound {
		return defaultTaxRate, nil
	}
	if err != nil {
		return 0, err
	}

	rate, err := strconv.ParseFloat(value, 64)
	if err != nil || rate < 0 {
		slog.Warn("Invalid tax_rate setting, using default", "value", value)
		return defaultTaxRate, nil
	}
	return rate, nil
}

func (s *Store) LicenseStatus() (string, error) {
	status, err := s.Setting("license_status")
	if err == ErrNotFound {
		return "unlicensed", nil
	}
	return status, err
}

func (s *Store) SetLicenseStatus(status string) error {
	return s.SetSetting("license_status", status)
}
