package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB    *sql.DB
	Store string
}

// NewService constructs a new health service.
func NewService(db *sql.DB, storeType string) *Service {
	return &Service{DB: db, Store: storeType}
}

// Status reports liveness plus the backing store and database state. ok stays
// true when the database is unreachable.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{
		"ok":      true,
		"storage": s.Store,
	}
	if s.DB == nil {
		out["database"] = "memory"
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		out["database"] = "down"
		return out
	}
	out["database"] = "up"
	return out
}
