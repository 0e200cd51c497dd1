package model

import (
	"fmt"
	"math"
)

// LocalClustering returns the fraction of pairs of neighbors of id that are
// themselves adjacent: 2t / (k(k-1)) for degree k and t links among the
// neighbors. Nodes with degree below 2, and unknown ids, have coefficient 0.
func LocalClustering(graph *ConflictGraph, id string) float64 {
	i, ok := graph.index[id]
	if !ok {
		return 0
	}

	neighbors := graph.neighbors[i]
	degree := len(neighbors)
	if degree < 2 {
		return 0
	}

	links := 0
	for a := 0; a < degree-1; a++ {
		for b := a + 1; b < degree; b++ {
			if _, ok := graph.edges[edgeKey(neighbors[a], neighbors[b])]; ok {
				links++
			}
		}
	}
	return 2 * float64(links) / float64(degree*(degree-1))
}

type CentralityStatus int

const (
	CentralityComputed CentralityStatus = iota
	CentralityUnavailable
)

func (status CentralityStatus) String() string {
	switch status {
	case CentralityComputed:
		return "computed"
	case CentralityUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("CentralityStatus(%d)", int(status))
}

// Centrality is the outcome of a betweenness computation over a whole graph.
// When Status is CentralityUnavailable every node's value reads as 0 and
// Reason explains why.
type Centrality struct {
	Status CentralityStatus
	Reason string
	values map[string]float64
}

func unavailableCentrality(reason string) Centrality {
	return Centrality{Status: CentralityUnavailable, Reason: reason}
}

func (centrality Centrality) Available() bool {
	return centrality.Status == CentralityComputed
}

func (centrality Centrality) Value(id string) float64 {
	if !centrality.Available() {
		return 0
	}
	return centrality.values[id]
}

// BetweennessCentrality computes normalized shortest-path betweenness for
// every node using Brandes' algorithm, O(V·E) on the unweighted graph. Values
// are scaled by 1/((n-1)(n-2)) and are 0 for graphs with fewer than 3 nodes.
// A positive nodeLimit marks larger graphs as unavailable instead of
// computing them.
func BetweennessCentrality(graph *ConflictGraph, nodeLimit int) Centrality {
	n := graph.Order()
	if n == 0 {
		return unavailableCentrality("graph has no nodes")
	}
	if nodeLimit > 0 && n > nodeLimit {
		return unavailableCentrality(fmt.Sprintf("graph has %d nodes, limit is %d", n, nodeLimit))
	}

	betweenness := make([]float64, n)
	sigma := make([]float64, n)
	delta := make([]float64, n)
	distance := make([]int, n)
	predecessors := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for source := range n {
		//** Single-source shortest paths
		stack, queue = stack[:0], queue[:0]
		for i := range n {
			predecessors[i] = predecessors[i][:0]
			sigma[i], delta[i], distance[i] = 0, 0, -1
		}
		sigma[source], distance[source] = 1, 0
		queue = append(queue, source)

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)
			for _, w := range graph.neighbors[v] {
				if distance[w] < 0 {
					distance[w] = distance[v] + 1
					queue = append(queue, w)
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		//** Dependency accumulation
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	// Every unordered pair was visited from both endpoints
	if n > 2 {
		scale := 1 / float64((n-1)*(n-2))
		for i := range betweenness {
			betweenness[i] *= scale
		}
	}

	values := make(map[string]float64, n)
	for i, value := range betweenness {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return unavailableCentrality(fmt.Sprintf("non-finite centrality for course %q", graph.nodes[i].Id))
		}
		values[graph.nodes[i].Id] = value
	}
	return Centrality{Status: CentralityComputed, values: values}
}
