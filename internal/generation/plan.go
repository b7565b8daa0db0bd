package generation

import "github.com/dimitry-co/ai-study-buddy/internal/config"

// batchFocuses is the fixed rotation of thematic angles assigned to parallel
// batches. Steering each batch toward a different angle raises cross-batch
// diversity; a single large request tends to go redundant near the end.
var batchFocuses = []string{
	"fundamentals: core definitions, terminology, and key facts",
	"application: real-world usage, examples, and problem solving",
	"analysis: comparisons, causality, and relationships between concepts",
}

// Batch describes one independent model call within an execution plan.
type Batch struct {
	// Size is the number of items this batch must produce.
	Size int

	// Focus is the thematic steering instruction, empty in single mode.
	Focus string
}

// ExecutionPlan is the list of one-or-more batches whose sizes sum exactly to
// the requested item count. Invoker and validator run one code path over it
// regardless of batch count.
type ExecutionPlan struct {
	Batches []Batch
}

// Batched reports whether the plan fans out to parallel calls.
func (p ExecutionPlan) Batched() bool { return len(p.Batches) > 1 }

// TotalItems returns the sum of all batch sizes.
func (p ExecutionPlan) TotalItems() int {
	total := 0
	for _, b := range p.Batches {
		total += b.Size
	}
	return total
}

// PlanExecution decides between a single call and parallel batches. Counts
// below the threshold run as one full-size batch. Larger counts split into
// cfg.NumBatches batches sized within 1 of each other, the remainder going to
// the earliest batches, each with a distinct thematic focus. Config
// validation caps NumBatches at len(batchFocuses), so focuses never repeat.
func PlanExecution(itemCount int, cfg config.GenerationConfig) ExecutionPlan {
	if itemCount < cfg.BatchThreshold {
		return ExecutionPlan{Batches: []Batch{{Size: itemCount}}}
	}

	base := itemCount / cfg.NumBatches
	remainder := itemCount % cfg.NumBatches

	batches := make([]Batch, cfg.NumBatches)
	for i := range batches {
		size := base
		if i < remainder {
			size++
		}
		batches[i] = Batch{
			Size:  size,
			Focus: batchFocuses[i],
		}
	}

	return ExecutionPlan{Batches: batches}
}
