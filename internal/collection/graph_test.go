package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evsel/internal/protocol"
)

type node struct {
	name string
	deps []string
}

func (n node) Name() string           { return n.name }
func (n node) Dependencies() []string { return n.deps }

func TestCheckAcyclic_Empty(t *testing.T) {
	assert.NoError(t, CheckAcyclic())
}

func TestCheckAcyclic_DAG(t *testing.T) {
	err := CheckAcyclic(
		node{name: "muons"},
		node{name: "electrons", deps: []string{"muons"}},
		node{name: "photons", deps: []string{"muons", "electrons"}},
		node{name: "jets", deps: []string{"muons", "electrons", "photons"}},
	)
	assert.NoError(t, err)
}

func TestCheckAcyclic_UnknownDependencyIsLeaf(t *testing.T) {
	assert.NoError(t, CheckAcyclic(node{name: "jets", deps: []string{"external"}}))
}

func TestCheckAcyclic_SelfLoop(t *testing.T) {
	err := CheckAcyclic(node{name: "jets", deps: []string{"jets"}})
	require.Error(t, err)
	assert.True(t, protocol.Is(err, protocol.CodeDependencyCycle))
	assert.Contains(t, err.Error(), "jets → jets")
}

func TestCheckAcyclic_TwoNodeCycle(t *testing.T) {
	err := CheckAcyclic(
		node{name: "a", deps: []string{"b"}},
		node{name: "b", deps: []string{"a"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a → b → a")
}

func TestCheckAcyclic_ThreeNodeCycle(t *testing.T) {
	err := CheckAcyclic(
		node{name: "muons"},
		node{name: "a", deps: []string{"muons", "c"}},
		node{name: "b", deps: []string{"a"}},
		node{name: "c", deps: []string{"b"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a → c → b → a")
	assert.Contains(t, err.Error(), "path_length=3")
}

func TestCheckAcyclic_RealCollections(t *testing.T) {
	cur := &fakeCursor{pos: 1}
	empty := []obj{}
	mu := New("muons", cur, fixedSelector(&empty, nil))
	el := New("electrons", cur, fixedSelector(&empty, nil))
	jet := New("jets", cur, fixedSelector(&empty, nil))
	require.NoError(t, el.EnableCleaning(mu))
	require.NoError(t, jet.EnableCleaning(mu, el))
	assert.NoError(t, CheckAcyclic(mu, el, jet))

	require.NoError(t, mu.EnableCleaning(jet))
	assert.True(t, protocol.Is(CheckAcyclic(mu, el, jet), protocol.CodeDependencyCycle))
}

func TestTopologicalOrder(t *testing.T) {
	order, err := TopologicalOrder(
		node{name: "jets", deps: []string{"electrons", "muons"}},
		node{name: "electrons", deps: []string{"muons"}},
		node{name: "muons"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"muons", "electrons", "jets"}, order)
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	_, err := TopologicalOrder(node{name: "a", deps: []string{"a"}})
	assert.True(t, protocol.Is(err, protocol.CodeDependencyCycle))
}
