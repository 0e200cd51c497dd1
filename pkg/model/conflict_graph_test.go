package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildGraph(t *testing.T, document string) (Instance, *ConflictGraph) {
	t.Helper()
	instance := newTestParser().ParseString(t.Name(), document)
	return instance, BuildConflictGraph(instance)
}

func TestBuildConflictGraph(t *testing.T) {
	t.Run("Single curriculum forms a clique", func(t *testing.T) {
		//** Act
		_, graph := buildGraph(t, t1Document)

		//** Assert
		assert.Equal(t, 3, graph.Order())
		assert.Equal(t, 3, graph.Size())
		assert.True(t, graph.HasEdge("c1", "c2"))
		assert.True(t, graph.HasEdge("c1", "c3"))
		assert.True(t, graph.HasEdge("c2", "c3"))
		assert.Equal(t, []string{"c2", "c3"}, graph.Neighbors("c1"))
	})

	t.Run("Edges are symmetric and never self-loops", func(t *testing.T) {
		//** Act
		instance, graph := buildGraph(t, bridgeDocument)

		//** Assert
		for _, u := range instance.Courses {
			assert.False(t, graph.HasEdge(u.Id, u.Id), "self-loop on %v", u.Id)
			for _, v := range instance.Courses {
				assert.Equal(t, graph.HasEdge(u.Id, v.Id), graph.HasEdge(v.Id, u.Id))
			}
		}
	})

	t.Run("Dangling references are skipped", func(t *testing.T) {
		//** Act
		_, graph := buildGraph(t, bridgeDocument)

		//** Assert
		assert.False(t, graph.HasNode("ghost"))
		assert.Equal(t, []string{"c", "e"}, graph.Neighbors("d"))
		assert.Nil(t, graph.Neighbors("ghost"))
		assert.Zero(t, graph.Degree("ghost"))
		assert.False(t, graph.HasEdge("d", "ghost"))
	})

	t.Run("Repeated pairs collapse into one edge", func(t *testing.T) {
		//** Act
		_, graph := buildGraph(t, bridgeDocument)

		//** Assert
		assert.Equal(t, 5, graph.Size())
		assert.Equal(t, 2, graph.Degree("a"))
		assert.Equal(t, []string{"q1", "q4"}, graph.EdgeCurricula("a", "b"))
		assert.Equal(t, []string{"q1", "q4"}, graph.EdgeCurricula("b", "a"))
		assert.Equal(t, []string{"q2"}, graph.EdgeCurricula("c", "d"))
		assert.Empty(t, graph.EdgeCurricula("a", "e"))
	})

	t.Run("Degrees", func(t *testing.T) {
		//** Act
		_, graph := buildGraph(t, bridgeDocument)

		//** Assert
		expected := map[string]int{"a": 2, "b": 2, "c": 3, "d": 2, "e": 1}
		for id, degree := range expected {
			assert.Equal(t, degree, graph.Degree(id), id)
			assert.LessOrEqual(t, graph.Degree(id), graph.Order()-1)
		}
	})

	t.Run("Courses outside every curriculum are isolated", func(t *testing.T) {
		//** Act
		_, graph := buildGraph(t, "COURSES:\nx t 1 1 1\ny t 1 1 1\n\nCURRICULA:\nk 1 x")

		//** Assert
		assert.Equal(t, 2, graph.Order())
		assert.Zero(t, graph.Size())
		assert.Empty(t, graph.Neighbors("y"))
	})

	t.Run("Repeated course ids keep one node", func(t *testing.T) {
		//** Act
		_, graph := buildGraph(t, "COURSES:\nx t 1 1 1\ny t 1 1 1\nx u 4 2 9\n\nCURRICULA:\nk 2 x y")

		//** Assert
		assert.Equal(t, 2, graph.Order())
		node, ok := graph.Node("x")
		assert.True(t, ok)
		assert.Equal(t, "u", node.Teacher)
		assert.Equal(t, 4, node.Lectures)
	})

	t.Run("Empty instance", func(t *testing.T) {
		//** Act
		graph := BuildConflictGraph(newInstance("empty"))

		//** Assert
		assert.Zero(t, graph.Order())
		assert.Zero(t, graph.Size())
	})
}
