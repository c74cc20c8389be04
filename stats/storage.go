// Package stats persists monthly usage counters for the audit service.
// Results themselves are never stored; only aggregate counts are.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MonthlyStats represents usage counters for a specific month.
type MonthlyStats struct {
	Audits         int       `json:"audits"`
	AuditFailures  int       `json:"audit_failures"`
	Renders        int       `json:"renders"`
	RenderFailures int       `json:"render_failures"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Storage handles persistent storage of usage statistics.
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	logger      *zap.Logger
}

// NewStorage creates a statistics storage instance rooted at dataDir.
func NewStorage(dataDir string, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		logger:      logger,
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes statistics to a temporary file first, then renames it into
// place so readers never see a partial write.
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter handles requested and periodic writes to disk.
func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			if err := s.save(); err != nil {
				s.logger.Warn("stats write failed", zap.Error(err))
			}
		case <-ticker.C:
			if err := s.save(); err != nil {
				s.logger.Warn("periodic stats write failed", zap.Error(err))
			}
		}
	}
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// write already pending
	}
}

// RecordAudit increments the audit counters for the current month.
func (s *Storage) RecordAudit(failed bool) {
	s.increment(func(m *MonthlyStats) {
		m.Audits++
		if failed {
			m.AuditFailures++
		}
	})
}

// RecordRender increments the render counters for the current month.
func (s *Storage) RecordRender(failed bool) {
	s.increment(func(m *MonthlyStats) {
		m.Renders++
		if failed {
			m.RenderFailures++
		}
	})
}

func (s *Storage) increment(update func(*MonthlyStats)) {
	month := currentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	m, exists := s.stats[month]
	if !exists {
		m = &MonthlyStats{}
		s.stats[month] = m
	}

	update(m)
	m.LastUpdated = time.Now()

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// GetCurrentStats returns statistics for the current month.
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := currentMonth()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if m, exists := s.stats[month]; exists {
		return *m
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if m, exists := s.stats[yearMonth]; exists {
		return *m, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns all months with statistics, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Cleanup retains only the current and previous month.
func (s *Storage) Cleanup() {
	now := time.Now()
	current := now.Format("2006-01")
	previous := now.AddDate(0, -1, 0).Format("2006-01")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key := range s.stats {
		if key != current && key != previous {
			delete(s.stats, key)
		}
	}

	s.requestWrite()
	s.logger.Info("retained statistics", zap.String("current", current), zap.String("previous", previous))
}

// Shutdown flushes pending counters to disk.
func (s *Storage) Shutdown() error {
	return s.save()
}
