package config

// SchedulerConfig defines configuration for the automated rescan scheduler
type SchedulerConfig struct {
	CycleMinutes       int    `json:"cycle_minutes,omitempty" yaml:"cycle_minutes,omitempty" validate:"min=1"`
	MaxRescansPerCycle int    `json:"max_rescans_per_cycle,omitempty" yaml:"max_rescans_per_cycle,omitempty" validate:"min=1"`
	ProjectID          int64  `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	SQLiteDBPath       string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CycleMinutes:       DefaultSchedulerCycleMinutes,
		MaxRescansPerCycle: DefaultSchedulerMaxPerCycle,
		SQLiteDBPath:       DefaultSchedulerSQLiteDBPath,
	}
}
