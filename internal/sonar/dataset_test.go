package sonar

import (
	"strings"
	"testing"
)

func validDataset() *SoundingDataset {
	return &SoundingDataset{
		Lat:         []float64{1, 2, 3},
		Lon:         []float64{1, 2, 3},
		Depth:       []float64{10, 20, 30},
		Backscatter: []float64{-20, -21, -22},
		Angle:       []float64{0, 5, -5},
		Index: PingIndex{
			BeamCount:   []int32{2, 1},
			StartOffset: []int32{0, 2},
			PingTime:    []float64{100, 101},
		},
	}
}

func TestValidateOK(t *testing.T) {
	if err := validDataset().Validate(); err != nil {
		t.Fatalf("valid dataset rejected: %v", err)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*SoundingDataset)
		wantMsg string
	}{
		{
			"unequal_columns",
			func(ds *SoundingDataset) { ds.Depth = ds.Depth[:2] },
			"length mismatch",
		},
		{
			"index_length_mismatch",
			func(ds *SoundingDataset) { ds.Index.PingTime = ds.Index.PingTime[:1] },
			"index array length mismatch",
		},
		{
			"bad_prefix_sum",
			func(ds *SoundingDataset) { ds.Index.StartOffset[1] = 1 },
			"start offset",
		},
		{
			"count_sum_mismatch",
			func(ds *SoundingDataset) { ds.Index.BeamCount[1] = 2 },
			"does not match flattened length",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ds := validDataset()
			tc.mutate(ds)
			err := ds.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestPingSlice(t *testing.T) {
	ds := validDataset()

	start, end := ds.PingSlice(0)
	if start != 0 || end != 2 {
		t.Errorf("ping 0 slice = [%d, %d), want [0, 2)", start, end)
	}
	start, end = ds.PingSlice(1)
	if start != 2 || end != 3 {
		t.Errorf("ping 1 slice = [%d, %d), want [2, 3)", start, end)
	}
}
