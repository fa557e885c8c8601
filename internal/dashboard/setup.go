package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
	"github.com/EmpoweredVote/attendance-monitor/internal/config"
	"github.com/EmpoweredVote/attendance-monitor/internal/db"
	"github.com/EmpoweredVote/attendance-monitor/internal/geo"
	"github.com/EmpoweredVote/attendance-monitor/internal/present"
)

// Init loads every input and derives the views. Any failure means the process
// cannot start; there is no partial load.
func Init(ctx context.Context, cfg config.Config, log *zap.Logger) (*Dashboard, error) {
	log = log.Named("dashboard")

	table, err := loadTable(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	ds, err := attendance.NewDataset(table)
	if err != nil {
		return nil, fmt.Errorf("derive attendance views: %w", err)
	}

	boundaries, err := geo.LoadSet(cfg.DistrictGeoPath(), cfg.SubcountyGeoPath())
	if err != nil {
		return nil, fmt.Errorf("load boundaries: %w", err)
	}

	layout, err := present.LoadLayout(cfg.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}

	log.Info("Attendance data loaded",
		zap.String("source", string(cfg.Source)),
		zap.String("dataset_id", ds.ID.String()),
		zap.Int("records", len(ds.Records)),
		zap.Int("dropped_undated", table.Dropped),
		zap.Int("persons", len(ds.Persons)),
		zap.Int("repeat_visitors", len(ds.RepeatVisitors)),
		zap.Ints("years", ds.Years),
	)
	warnUnmatched(log, ds, boundaries)

	return New(ds, boundaries, layout), nil
}

// loadTable reads the configured source with the district allow-list applied.
func loadTable(ctx context.Context, cfg config.Config, log *zap.Logger) (*attendance.Table, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		gdb, err := db.Connect(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err == nil {
			defer sqlDB.Close()
		}
		return attendance.LoadFromDB(ctx, gdb, cfg.KeepDistricts)
	default:
		t, err := attendance.ParseCSV(cfg.AttendancePath())
		if err != nil {
			return nil, err
		}
		return t.KeepDistricts(cfg.KeepDistricts), nil
	}
}

// warnUnmatched logs geographies that will never colour the map because no
// boundary feature carries their name.
func warnUnmatched(log *zap.Logger, ds *attendance.Dataset, boundaries geo.Set) {
	districts := make([]string, 0, len(ds.Records))
	subcounties := make([]string, 0, len(ds.Records))
	for _, r := range ds.Records {
		districts = append(districts, r.District)
		subcounties = append(subcounties, r.Subcounty)
	}
	if names := boundaries[geo.District].Unmatched(districts); len(names) > 0 {
		log.Warn("Districts missing from boundary file", zap.Strings("names", names))
	}
	if names := boundaries[geo.Subcounty].Unmatched(subcounties); len(names) > 0 {
		log.Warn("Subcounties missing from boundary file", zap.Strings("names", names))
	}
}
