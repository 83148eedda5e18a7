package scheme

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vk/blockflow/internal/testutil"
)

// TestBatchOrderProperties verifies that batch enable and disable
// observe the scheme's execution order no matter how the input list is
// permuted.
func TestBatchOrderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	buildFixture := func() (*testutil.Recorder, *Scheme) {
		rec := &testutil.Recorder{}
		peers := testutil.NewPeers()
		for _, name := range topoNames {
			peers.Add(testutil.NewIOBlock(name, rec).Handle)
		}
		s := New(peers)
		connections := [][2]string{
			{"iob1.out1", "iob2.in"},
			{"iob2.out2", "iob3.in"},
			{"iob3.out1", "iob4.in"},
			{"iob4.out1", "iob5.in"},
		}
		for _, c := range connections {
			if !s.Connect(c[0], c[1]) {
				return nil, nil
			}
		}
		for _, name := range topoNames {
			if !s.AddBlock(name) {
				return nil, nil
			}
		}
		return rec, s
	}

	permutation := func(seed int64) []string {
		rng := rand.New(rand.NewSource(seed))
		names := append([]string(nil), topoNames...)
		rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
		return names
	}

	properties.Property("enable trace follows the topological order", prop.ForAll(
		func(seed int64) bool {
			rec, s := buildFixture()
			if s == nil {
				return false
			}
			if !s.EnableBlocks(permutation(seed), true, true) {
				return false
			}
			if len(rec.EnableOrder) != len(topoNames) {
				return false
			}
			for i, name := range topoNames {
				if rec.EnableOrder[i] != name {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("disable trace follows the reverse order", prop.ForAll(
		func(seed int64) bool {
			rec, s := buildFixture()
			if s == nil {
				return false
			}
			if !s.EnableBlocks(topoNames, true, true) {
				return false
			}
			if !s.DisableBlocks(permutation(seed), true) {
				return false
			}
			if len(rec.DisableOrder) != len(topoNames) {
				return false
			}
			for i, name := range topoNames {
				if rec.DisableOrder[len(topoNames)-1-i] != name {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
