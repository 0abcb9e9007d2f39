package parser

// DocumentStats contains statistical information about a loaded contract
type DocumentStats struct {
	PathCount      int // Number of path templates
	OperationCount int // Total number of operations across all paths
	ParameterCount int // Path and query parameters across all operations
	SchemaCount    int // Number of distinct $ref targets resolved to schemas
}

func computeStats(d *Document, refSchemas int) DocumentStats {
	stats := DocumentStats{PathCount: len(d.Paths), SchemaCount: refSchemas}
	for _, p := range d.Paths {
		stats.OperationCount += len(p.Operations)
		for _, op := range p.Operations {
			stats.ParameterCount += len(op.Parameters)
		}
	}
	return stats
}
