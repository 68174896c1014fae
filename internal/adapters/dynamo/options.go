package dynamo

import "github.com/okian/sectorscore/pkg/logger"

// Option configures a Store.
type Option func(*Store)

// WithTablePrefix prepends prefix to every collection name to form the table name.
func WithTablePrefix(prefix string) Option {
	return func(s *Store) { s.tablePrefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
