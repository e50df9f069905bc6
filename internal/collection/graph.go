package collection

import (
	"sort"
	"strings"

	"github.com/roach88/evsel/internal/protocol"
)

// Node is a collection as seen by the dependency analysis.
// Implemented by *Collection.
type Node interface {
	Name() string
	Dependencies() []string
}

// CheckAcyclic verifies that the cleaning dependencies between nodes form a
// DAG. Dependencies naming collections outside nodes are treated as leaves.
//
// Returns a DEPENDENCY_CYCLE ProtocolError describing the first cycle found.
// Nodes are analyzed in name order so the reported path is stable.
//
// The algorithm:
//  1. Build name → dependencies graph
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Any SCC with size > 1, or a self-loop, is a cycle
func CheckAcyclic(nodes ...Node) error {
	graph := make(dependencyGraph, len(nodes))
	for _, n := range nodes {
		graph[n.Name()] = append(graph[n.Name()], n.Dependencies()...)
	}

	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			path := reconstructCyclePath(scc, graph)
			return protocol.New(protocol.CodeDependencyCycle, path[0],
				"cleaning dependencies form a cycle: %s", strings.Join(path, " → ")).
				With("path_length", len(path)-1)
		}
	}
	return nil
}

// TopologicalOrder returns node names ordered so every collection follows
// the collections it is cleaned against. Returns the CheckAcyclic error if
// the graph has a cycle.
func TopologicalOrder(nodes ...Node) ([]string, error) {
	if err := CheckAcyclic(nodes...); err != nil {
		return nil, err
	}

	graph := make(dependencyGraph, len(nodes))
	for _, n := range nodes {
		graph[n.Name()] = append(graph[n.Name()], n.Dependencies()...)
	}

	var order []string
	done := make(map[string]bool)
	var visit func(string)
	visit = func(name string) {
		if done[name] {
			return
		}
		done[name] = true
		for _, dep := range graph[name] {
			visit(dep)
		}
		if _, known := graph[name]; known {
			order = append(order, name)
		}
	}
	for _, name := range sortedNodes(graph) {
		visit(name)
	}
	return order, nil
}

// dependencyGraph maps collection name → names it is cleaned against.
type dependencyGraph map[string][]string

func sortedNodes(graph dependencyGraph) []string {
	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Single-node SCCs without self-loops are not cycles.
func tarjanSCC(graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sort.Strings(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, node := range sortedNodes(graph) {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// reconstructCyclePath builds a closed path through an SCC starting at its
// first member, e.g. ["a", "b", "a"].
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	start := scc[0]
	if len(scc) == 1 {
		return []string{start, start}
	}

	sccSet := make(map[string]bool, len(scc))
	for _, node := range scc {
		sccSet[node] = true
	}

	current := start
	path := []string{current}
	visited := make(map[string]bool)
	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
