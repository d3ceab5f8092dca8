package service

import (
	"context"

	"github.com/vzahanych/weather-dashboard/internal/weather"
)

// ArchiveService fetches historical daily weather. Implementations return
// *weather.FetchError for every failure.
type ArchiveService interface {
	GetDailyArchive(ctx context.Context, q weather.Query) (*weather.Report, error)
	Name() string
}
