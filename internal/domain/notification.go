package domain

import "context"

// NotificationService defines the interface for notification services
type NotificationService interface {
	// SendSuccess sends a success notification with statistics
	SendSuccess(ctx context.Context, stats Statistics) error

	// SendError sends an error notification with error details
	SendError(ctx context.Context, err error) error
}

// Statistics holds the final statistics for the run
type Statistics struct {
	TotalEntries            int
	EntriesWithMetadata     int
	MetadataCoveragePercent float64
	MetadataFetched         int
	MetadataFromCache       int
	TotalRows               int
	DroppedEntries          int
	Families                int
	StandaloneEntries       int
}
