package compiler

import (
	"slices"
	"strings"

	"github.com/roach88/fieldobs/internal/ir"
)

// RecordCycle is a set of records that contain each other through
// participating fields. Such records have no finite variant size.
type RecordCycle struct {
	Path    []string `json:"path"` // ["A", "B", "A"]
	Message string   `json:"message"`
}

// AnalyzeCycles finds record containment cycles.
//
// It builds a graph with an edge R -> N for every participating field of R
// whose record N is declared in the schema, finds strongly connected
// components with Tarjan's algorithm, and reports every component with more
// than one record, or one record that contains itself. External records
// are leaves of the graph: their package already compiled, so they cannot
// close a cycle.
//
// Results are deterministic: nodes are visited in schema order.
func AnalyzeCycles(s *ir.Schema) []RecordCycle {
	graph, order := buildContainmentGraph(s)

	var cycles []RecordCycle
	for _, scc := range tarjanSCC(graph, order) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			cycles = append(cycles, sccToCycle(scc, graph, order))
		}
	}
	return cycles
}

// containmentGraph maps a record name to the records its fields expand.
type containmentGraph map[string][]string

func buildContainmentGraph(s *ir.Schema) (containmentGraph, []string) {
	graph := make(containmentGraph, len(s.Records))
	order := make([]string, 0, len(s.Records))
	for _, rec := range s.Records {
		if _, seen := graph[rec.Name]; seen {
			continue // duplicates are reported separately
		}
		order = append(order, rec.Name)
		graph[rec.Name] = []string{}
	}
	for _, rec := range s.Records {
		for _, f := range rec.Fields {
			if f.Nested == nil || f.Nested.External() {
				continue
			}
			if _, declared := graph[f.Nested.Name]; !declared {
				continue
			}
			if !slices.Contains(graph[rec.Name], f.Nested.Name) {
				graph[rec.Name] = append(graph[rec.Name], f.Nested.Name)
			}
		}
	}
	return graph, order
}

func hasSelfLoop(node string, graph containmentGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
func tarjanSCC(graph containmentGraph, order []string) [][]string {
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
			sccs = append(sccs, scc)
		}
	}

	for _, v := range order {
		if _, visited := indices[v]; !visited {
			strongConnect(v)
		}
	}
	return sccs
}

// sccToCycle returns the shortest cycle through the component's first
// record in schema order.
func sccToCycle(scc []string, graph containmentGraph, order []string) RecordCycle {
	members := make(map[string]bool, len(scc))
	for _, name := range scc {
		members[name] = true
	}
	start := ""
	for _, name := range order {
		if members[name] {
			start = name
			break
		}
	}

	// Breadth-first search from start back to start, within the component.
	prev := map[string]string{}
	queue := []string{start}
	last := ""
	for len(queue) > 0 && last == "" {
		cur := queue[0]
		queue = queue[1:]
		for _, w := range graph[cur] {
			if w == start {
				last = cur
				break
			}
			if _, seen := prev[w]; !seen && members[w] {
				prev[w] = cur
				queue = append(queue, w)
			}
		}
	}

	path := []string{start}
	for cur := last; cur != start; cur = prev[cur] {
		path = append(path, cur)
	}
	slices.Reverse(path[1:])
	path = append(path, start)

	return RecordCycle{
		Path:    path,
		Message: "records contain themselves: " + strings.Join(path, " -> "),
	}
}
