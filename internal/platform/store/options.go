package store

import "kycdesk/internal/platform/logger"

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPG installs a ready sql seam, Open then skips dialing postgres
func WithPG(q TxRunner) Option {
	return func(s *Store) error {
		s.PG = q
		return nil
	}
}

// WithCH installs a ready clickhouse seam
func WithCH(c Clickhouse) Option {
	return func(s *Store) error {
		s.CH = c
		return nil
	}
}
