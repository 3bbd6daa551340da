package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aleister1102/autoaudit/internal/backend"
	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/models"
	"github.com/aleister1102/autoaudit/internal/readmodel"
	"github.com/aleister1102/autoaudit/internal/rescanner"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	urls []models.MonitoredURL
	opts backend.ListURLsOptions
}

func (sl *stubLister) ListURLs(ctx context.Context, opts backend.ListURLsOptions) ([]models.MonitoredURL, error) {
	sl.opts = opts
	return sl.urls, nil
}

type stubRescanBackend struct {
	mu    sync.Mutex
	calls []int64
}

func (srb *stubRescanBackend) ForceRescan(ctx context.Context, urlID int64) (models.RescanResult, error) {
	srb.mu.Lock()
	defer srb.mu.Unlock()
	srb.calls = append(srb.calls, urlID)
	return models.RescanResult{Type: models.ScanTypeImmediate, RawScanType: "immediate", URLID: urlID}, nil
}

type stubArchiver struct {
	archived []int64
}

func (sa *stubArchiver) ArchiveRescan(url models.MonitoredURL, result models.RescanResult) error {
	sa.archived = append(sa.archived, url.ID)
	return nil
}

func overdueURL(id int64) models.MonitoredURL {
	last := models.Timestamp{Time: time.Now().Add(-48 * time.Hour)}
	return models.MonitoredURL{
		ID:                  id,
		URL:                 "https://dealer.example/vdp",
		URLType:             models.URLTypeVDP,
		Active:              true,
		CheckFrequencyHours: 24,
		LastChecked:         &last,
	}
}

func freshURL(id int64) models.MonitoredURL {
	last := models.Timestamp{Time: time.Now().Add(-1 * time.Hour)}
	u := overdueURL(id)
	u.LastChecked = &last
	return u
}

func newTestExecutor(t *testing.T, lister URLLister, rescanBackend rescanner.RescanBackend, archive CheckArchiver, cfg *config.GlobalConfig) *CycleExecutor {
	t.Helper()
	store := readmodel.NewStore(zerolog.Nop())
	coordinator := rescanner.NewCoordinator(rescanBackend, rescanner.NewJobTracker(), store, zerolog.Nop())
	return NewCycleExecutor(cfg, lister, coordinator, nil, archive, zerolog.Nop())
}

func TestRunCycleRescansOnlyOverdueURLs(t *testing.T) {
	lister := &stubLister{urls: []models.MonitoredURL{overdueURL(1), freshURL(2), overdueURL(3)}}
	rescanBackend := &stubRescanBackend{}
	archive := &stubArchiver{}
	cfg := config.NewDefaultGlobalConfig()

	executor := newTestExecutor(t, lister, rescanBackend, archive, cfg)
	summary, err := executor.RunCycle(context.Background())
	require.NoError(t, err)

	assert.True(t, lister.opts.ActiveOnly, "cycles only consider active URLs")
	assert.Equal(t, 3, summary.URLsConsidered)
	assert.Equal(t, 2, summary.URLsRescanned)
	assert.Equal(t, 0, summary.Failures)
	assert.ElementsMatch(t, []int64{1, 3}, rescanBackend.calls)
	assert.ElementsMatch(t, []int64{1, 3}, archive.archived, "immediate successes are archived")
}

func TestRunCycleHonorsPerCycleCap(t *testing.T) {
	urls := make([]models.MonitoredURL, 0, 10)
	for i := int64(1); i <= 10; i++ {
		urls = append(urls, overdueURL(i))
	}
	lister := &stubLister{urls: urls}
	rescanBackend := &stubRescanBackend{}
	cfg := config.NewDefaultGlobalConfig()
	cfg.SchedulerConfig.MaxRescansPerCycle = 4

	executor := newTestExecutor(t, lister, rescanBackend, nil, cfg)
	summary, err := executor.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.URLsRescanned)
	assert.Len(t, rescanBackend.calls, 4)
}

func TestRunCycleScopesToProject(t *testing.T) {
	lister := &stubLister{}
	cfg := config.NewDefaultGlobalConfig()
	cfg.SchedulerConfig.ProjectID = 9

	executor := newTestExecutor(t, lister, &stubRescanBackend{}, nil, cfg)
	_, err := executor.RunCycle(context.Background())
	require.NoError(t, err)

	require.NotNil(t, lister.opts.ProjectID)
	assert.Equal(t, int64(9), *lister.opts.ProjectID)
}

func TestSelectDueURLsSkipsInactive(t *testing.T) {
	inactive := overdueURL(5)
	inactive.Active = false
	cfg := config.NewDefaultGlobalConfig()
	executor := newTestExecutor(t, &stubLister{}, &stubRescanBackend{}, nil, cfg)

	due := executor.selectDueURLs([]models.MonitoredURL{inactive, overdueURL(6)}, time.Now())
	require.Len(t, due, 1)
	assert.Equal(t, int64(6), due[0].ID)
}
