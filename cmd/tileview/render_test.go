package main

import (
	"testing"

	"github.com/vovakirdan/tileview/internal/core"
)

func TestParseTiles(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    core.BoardState
		wantErr bool
	}{
		{"empty", "", core.BoardState{}, false},
		{"one", "0,0,2", core.BoardState{{X: 0, Y: 0, Value: 2}}, false},
		{"order kept", " 3,1,4   0,2,2048 ", core.BoardState{{X: 3, Y: 1, Value: 4}, {X: 0, Y: 2, Value: 2048}}, false},
		{"negative coordinates", "-1,5,8", core.BoardState{{X: -1, Y: 5, Value: 8}}, false},
		{"missing value", "0,0", nil, true},
		{"bad x", "a,0,2", nil, true},
		{"negative value", "0,0,-2", nil, true},
		{"value too big", "0,0,4294967296", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseTiles(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseTiles(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && !got.Equal(tc.want) {
				t.Errorf("parseTiles(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
