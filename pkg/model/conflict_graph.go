package model

import (
	"slices"

	"github.com/samber/lo"
)

// ConflictGraph is an undirected graph over the courses of an Instance where
// an edge means that at least one curriculum lists both endpoints. It has no
// parallel edges nor self-loops and is never modified once built.
type ConflictGraph struct {
	nodes     []Course            // Node attributes, in the Instance's course order
	index     map[string]int      // Course id -> position in nodes
	neighbors [][]int             // Sorted adjacency lists
	edges     map[[2]int][]string // (min, max) node pair -> curricula that produced the edge
}

// BuildConflictGraph adds one node per course and connects every pair of
// distinct courses sharing a curriculum. Pairs naming unknown courses are
// skipped.
func BuildConflictGraph(instance Instance) *ConflictGraph {
	graph := &ConflictGraph{
		nodes: make([]Course, 0, len(instance.Courses)),
		index: make(map[string]int, len(instance.Courses)),
		edges: make(map[[2]int][]string),
	}

	for _, course := range instance.Courses {
		graph.addNode(course)
	}
	graph.neighbors = make([][]int, len(graph.nodes))

	for _, curriculum := range instance.Curricula {
		courses := curriculum.Courses
		for i := 0; i < len(courses)-1; i++ {
			for j := i + 1; j < len(courses); j++ {
				graph.addEdge(courses[i], courses[j], curriculum.Id)
			}
		}
	}

	for _, neighbors := range graph.neighbors {
		slices.Sort(neighbors)
	}
	return graph
}

func (graph *ConflictGraph) addNode(course Course) {
	// A repeated id keeps its first position and takes the latest attributes
	if i, ok := graph.index[course.Id]; ok {
		graph.nodes[i] = course
		return
	}
	graph.index[course.Id] = len(graph.nodes)
	graph.nodes = append(graph.nodes, course)
}

func (graph *ConflictGraph) addEdge(course1, course2, curriculum string) {
	i, ok1 := graph.index[course1]
	j, ok2 := graph.index[course2]
	if !ok1 || !ok2 || i == j {
		return
	}

	key := edgeKey(i, j)
	curricula, exists := graph.edges[key]
	if !exists {
		graph.neighbors[i] = append(graph.neighbors[i], j)
		graph.neighbors[j] = append(graph.neighbors[j], i)
	}
	if !slices.Contains(curricula, curriculum) {
		graph.edges[key] = append(curricula, curriculum)
	}
}

func edgeKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// Order returns the number of nodes
func (graph *ConflictGraph) Order() int {
	return len(graph.nodes)
}

// Size returns the number of edges
func (graph *ConflictGraph) Size() int {
	return len(graph.edges)
}

func (graph *ConflictGraph) HasNode(id string) bool {
	_, ok := graph.index[id]
	return ok
}

func (graph *ConflictGraph) Node(id string) (Course, bool) {
	i, ok := graph.index[id]
	if !ok {
		return Course{}, false
	}
	return graph.nodes[i], true
}

// Neighbors returns the ids adjacent to id in node order, or nil for an unknown id.
func (graph *ConflictGraph) Neighbors(id string) []string {
	i, ok := graph.index[id]
	if !ok {
		return nil
	}
	return lo.Map(graph.neighbors[i], func(j int, _ int) string { return graph.nodes[j].Id })
}

func (graph *ConflictGraph) Degree(id string) int {
	i, ok := graph.index[id]
	if !ok {
		return 0
	}
	return len(graph.neighbors[i])
}

func (graph *ConflictGraph) HasEdge(id1, id2 string) bool {
	return len(graph.EdgeCurricula(id1, id2)) > 0
}

// EdgeCurricula returns the curricula that connect id1 and id2, in the order
// they were first seen.
func (graph *ConflictGraph) EdgeCurricula(id1, id2 string) []string {
	i, ok1 := graph.index[id1]
	j, ok2 := graph.index[id2]
	if !ok1 || !ok2 {
		return nil
	}
	return slices.Clone(graph.edges[edgeKey(i, j)])
}
