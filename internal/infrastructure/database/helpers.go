package database

// PoolStats is a snapshot of connection usage, reported by the health endpoint
type PoolStats struct {
	Driver        string `json:"driver"`
	TotalConns    int32  `json:"total_connections"`
	IdleConns     int32  `json:"idle_connections"`
	AcquiredConns int32  `json:"acquired_connections"`
	MaxConns      int32  `json:"max_connections"`
	WaitCount     int64  `json:"wait_count"`
}

// Stats reads pgxpool counters on postgres and database/sql counters otherwise
func (s *Store) Stats() PoolStats {
	if s.pg != nil && s.pg.Pool != nil {
		raw := s.pg.Pool.Stat()
		return PoolStats{
			Driver:        DriverPostgres,
			TotalConns:    raw.TotalConns(),
			IdleConns:     raw.IdleConns(),
			AcquiredConns: raw.AcquiredConns(),
			MaxConns:      raw.MaxConns(),
			WaitCount:     raw.EmptyAcquireCount(),
		}
	}

	raw := s.DB.Stats()
	return PoolStats{
		Driver:        DriverSQLite,
		TotalConns:    int32(raw.OpenConnections),
		IdleConns:     int32(raw.Idle),
		AcquiredConns: int32(raw.InUse),
		MaxConns:      int32(raw.MaxOpenConnections),
		WaitCount:     raw.WaitCount,
	}
}
