package store

import (
	"path/filepath"
	"testing"

	"github.com/NVIDIA/aistore/stat"
)

func openTestStore(t *testing.T) *BuntStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMergeAccumulatesAcrossCalls(t *testing.T) {
	s := openTestStore(t)

	a := stat.NewCounter("yellow", 2016, 1)
	a.Total = 10
	a.Pickups[10001] = 4

	b := stat.NewCounter("yellow", 2016, 1)
	b.Total = 5
	b.Pickups[10001] = 1
	b.Pickups[20001] = 2

	if err := s.Merge(a); err != nil {
		t.Fatalf("Merge a: %v", err)
	}
	if err := s.Merge(b); err != nil {
		t.Fatalf("Merge b: %v", err)
	}

	got, err := s.Get("yellow", 2016, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Total != 15 {
		t.Errorf("Total = %d, want 15", got.Total)
	}
	if got.Pickups[10001] != 5 {
		t.Errorf("Pickups[10001] = %d, want 5", got.Pickups[10001])
	}
	if got.Pickups[20001] != 2 {
		t.Errorf("Pickups[20001] = %d, want 2", got.Pickups[20001])
	}
}

func TestGetMissingRowIsNil(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get("green", 2014, 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get on missing row = %+v, want nil", got)
	}
}

func TestResetStartsFreshBatch(t *testing.T) {
	s := openTestStore(t)
	a := stat.NewCounter("yellow", 2016, 1)
	a.Total = 100
	if err := s.Merge(a); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if err := s.Reset("yellow", 2016, 1); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	got, err := s.Get("yellow", 2016, 1)
	if err != nil {
		t.Fatalf("Get after Reset: %v", err)
	}
	if got != nil {
		t.Errorf("Get after Reset = %+v, want nil (fresh row)", got)
	}

	b := stat.NewCounter("yellow", 2016, 1)
	b.Total = 7
	if err := s.Merge(b); err != nil {
		t.Fatalf("Merge after Reset: %v", err)
	}
	got, _ = s.Get("yellow", 2016, 1)
	if got.Total != 7 {
		t.Errorf("Total after Reset+Merge = %d, want 7 (not 107)", got.Total)
	}
}

func TestRowsAreIndependentAcrossKeys(t *testing.T) {
	s := openTestStore(t)
	y := stat.NewCounter("yellow", 2016, 1)
	y.Total = 3
	g := stat.NewCounter("green", 2016, 1)
	g.Total = 9

	if err := s.Merge(y); err != nil {
		t.Fatalf("Merge yellow: %v", err)
	}
	if err := s.Merge(g); err != nil {
		t.Fatalf("Merge green: %v", err)
	}

	gotY, _ := s.Get("yellow", 2016, 1)
	gotG, _ := s.Get("green", 2016, 1)
	if gotY.Total != 3 {
		t.Errorf("yellow Total = %d, want 3", gotY.Total)
	}
	if gotG.Total != 9 {
		t.Errorf("green Total = %d, want 9", gotG.Total)
	}
}
