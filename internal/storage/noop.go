package storage

// Store defines the archive interface
type Store interface {
	SaveCallRecord(record CallRecord) error
	SaveTransferRecord(record TransferRecord) error
	GetCallRecords(dateKey string) ([]CallRecord, error)
	GetTransferRecords(callID string) ([]TransferRecord, error)
	GetAgentCallsByDate(agentID, date string) ([]CallRecord, error)
	TruncateAll() error
}

// NoopStore is a no-op implementation when DynamoDB is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveCallRecord(_ CallRecord) error                     { return nil }
func (s *NoopStore) SaveTransferRecord(_ TransferRecord) error             { return nil }
func (s *NoopStore) GetCallRecords(_ string) ([]CallRecord, error)         { return nil, nil }
func (s *NoopStore) GetTransferRecords(_ string) ([]TransferRecord, error) { return nil, nil }
func (s *NoopStore) GetAgentCallsByDate(_, _ string) ([]CallRecord, error) { return nil, nil }
func (s *NoopStore) TruncateAll() error                                    { return nil }
