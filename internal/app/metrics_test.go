package app

import (
	"testing"
	"time"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordKey()
	m.RecordKey()
	m.RecordInsert()
	m.RecordDelete()
	m.RecordRedraw()
	m.RecordSave(10, 2*time.Millisecond)
	m.RecordSave(20, 4*time.Millisecond)
	m.RecordSaveFailure()

	s := m.Snapshot()
	if s.Keys != 2 || s.Inserts != 1 || s.Deletes != 1 || s.Redraws != 1 {
		t.Errorf("input counters = %+v", s)
	}
	if s.Saves != 2 || s.SaveFailures != 1 || s.BytesWritten != 30 {
		t.Errorf("save counters = %+v", s)
	}
	if s.AvgSaveNs != int64(3*time.Millisecond) {
		t.Errorf("AvgSaveNs = %d, want %d", s.AvgSaveNs, int64(3*time.Millisecond))
	}
	if s.Uptime < 0 {
		t.Errorf("Uptime = %v", s.Uptime)
	}
}

func TestMetrics_EmptyAverages(t *testing.T) {
	s := NewMetrics().Snapshot()
	if s.AvgSaveNs != 0 {
		t.Errorf("AvgSaveNs = %d, want 0 without saves", s.AvgSaveNs)
	}
	if len(s.Fields()) != 8 {
		t.Errorf("Fields() has %d entries, want 8", len(s.Fields()))
	}
}
