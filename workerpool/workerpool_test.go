package workerpool

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/NVIDIA/aistore/cmn"
	"github.com/NVIDIA/aistore/geo"
	"github.com/NVIDIA/aistore/objstore"
	"github.com/NVIDIA/aistore/queue"
)

const testFC = `{
  "type": "FeatureCollection",
  "features": [
    {"type":"Feature","properties":{"boro_name":"Manhattan","boro_code":1},
     "geometry":{"type":"MultiPolygon","coordinates":[[[[-74,40],[-74,41],[-73,41],[-73,40],[-74,40]]]]}}
  ]
}`

func pad(s string) string {
	if len(s) >= cmn.RecordLength {
		return s[:cmn.RecordLength]
	}
	return s + strings.Repeat(" ", cmn.RecordLength-len(s)-1) + "\n"
}

func writeTestShard(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(pad("0,600,-73.5,40.5,-73.6,40.6,3,12,"))
	}
	if err := os.WriteFile(dir+"/yellow-2016-01.csv", []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write shard: %v", err)
	}
	return dir
}

func TestRunMergesPartialsAcrossSubWorkers(t *testing.T) {
	idx, err := geo.Load(strings.NewReader(testFC))
	if err != nil {
		t.Fatalf("geo.Load: %v", err)
	}
	dir := writeTestShard(t, 20)
	src := objstore.NewLocalSource(dir)

	pool := New(src, idx, 4)
	task := &queue.Task{Color: "yellow", Year: 2016, Month: 1, Start: 0, End: 20, TimeoutSeconds: 60}

	result, err := pool.Run(context.Background(), task)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Total != 20 {
		t.Errorf("Total = %d, want 20 (sum across all 4 sub-workers)", result.Total)
	}
	if result.Pickups[10001] != 20 {
		t.Errorf("Pickups[10001] = %d, want 20", result.Pickups[10001])
	}
	if result.BoroughPickups[1] != 20 {
		t.Errorf("BoroughPickups[1] = %d, want 20 (RollupBoroughs must run after merge)", result.BoroughPickups[1])
	}
}

func TestRunDefaultsProcsToNumCPU(t *testing.T) {
	idx, err := geo.Load(strings.NewReader(testFC))
	if err != nil {
		t.Fatalf("geo.Load: %v", err)
	}
	pool := New(objstore.NewLocalSource(t.TempDir()), idx, 0)
	if pool.Procs <= 0 {
		t.Errorf("Procs = %d, want > 0 when constructed with 0", pool.Procs)
	}
}
