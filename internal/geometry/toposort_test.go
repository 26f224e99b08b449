package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalOrder(t *testing.T) {
	tests := []struct {
		name      string
		sequences [][]string
		want      []string
	}{
		{
			name:      "inserts missing stop",
			sequences: [][]string{{"A", "B", "D"}, {"A", "B", "C", "D"}},
			want:      []string{"A", "B", "C", "D"},
		},
		{
			name:      "branches keep first appearance",
			sequences: [][]string{{"A", "B", "E"}, {"A", "C", "E"}},
			want:      []string{"A", "B", "C", "E"},
		},
		{
			name:      "disjoint trips",
			sequences: [][]string{{"A", "B"}, {"X", "Y"}},
			want:      []string{"A", "B", "X", "Y"},
		},
		{
			name:      "single stop trip",
			sequences: [][]string{{"A", "B"}, {"Z"}},
			want:      []string{"A", "B", "Z"},
		},
		{
			name:      "consecutive duplicates are not cycles",
			sequences: [][]string{{"A", "A", "B"}, {"B", "C"}},
			want:      []string{"A", "B", "C"},
		},
		{
			name:      "empty",
			sequences: nil,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopologicalOrder(tt.sequences)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	_, err := TopologicalOrder([][]string{{"A", "B", "C"}, {"C", "B"}})
	assert.ErrorIs(t, err, ErrMergeCycle)

	_, err = TopologicalOrder([][]string{{"A", "B", "A"}})
	assert.ErrorIs(t, err, ErrMergeCycle)
}

func TestTopologicalOrder_RespectsEveryPair(t *testing.T) {
	sequences := [][]string{
		{"A", "C", "F"},
		{"A", "B", "C", "D"},
		{"D", "E", "F"},
	}
	got, err := TopologicalOrder(sequences)
	require.NoError(t, err)

	position := make(map[string]int)
	for i, name := range got {
		position[name] = i
	}
	for _, seq := range sequences {
		for i := 0; i+1 < len(seq); i++ {
			assert.Less(t, position[seq[i]], position[seq[i+1]], "%s before %s", seq[i], seq[i+1])
		}
	}
}
