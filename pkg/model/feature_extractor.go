package model

type Extractor interface {
	// Extract returns one record per course of instance, in course order,
	// together with the betweenness centrality computed for the whole graph.
	// Instances without courses yield no records.
	Extract(instance Instance, graph *ConflictGraph) ([]CourseFeatures, Centrality)
}

func NewExtractor(config Config) Extractor {
	return &extractorImplementation{config: config}
}
