// Package aggregate folds case results into per-workflow reports. Fold and
// Merge are associative and commutative over sums, so the finalized report
// is identical for any fold order and for any sharding of the input.
package aggregate

import "notegrader/internal/schema"

// Accumulator holds the run-scoped sums for one workflow. A single
// goroutine owns an Accumulator; concurrent runs use one per worker and
// Merge the partials.
type Accumulator struct {
	workflow          schema.Workflow
	totalCases        int
	schemaCompliant   int
	processingSuccess int
	accuracySum       float64
	fieldSums         map[string]float64
	fieldCounts       map[string]int
}

func New(workflow schema.Workflow) *Accumulator {
	return &Accumulator{
		workflow:    workflow,
		fieldSums:   map[string]float64{},
		fieldCounts: map[string]int{},
	}
}

// Fold adds one case result. Results for other workflows are ignored;
// routing per workflow is the caller's contract.
func (a *Accumulator) Fold(r schema.CaseResultV1) {
	if r.Workflow != a.workflow {
		return
	}
	a.totalCases++
	if r.SchemaCompliant {
		a.schemaCompliant++
	}
	if !r.ProcessingSuccess {
		return
	}
	a.processingSuccess++
	if r.Accuracy != nil {
		a.accuracySum += *r.Accuracy
	}
	for _, fs := range r.FieldScores {
		a.fieldSums[fs.Field] += fs.Score
		a.fieldCounts[fs.Field]++
	}
}

// Merge absorbs another accumulator's sums, leaving the other unchanged.
func (a *Accumulator) Merge(b *Accumulator) {
	if b == nil || b.workflow != a.workflow {
		return
	}
	a.totalCases += b.totalCases
	a.schemaCompliant += b.schemaCompliant
	a.processingSuccess += b.processingSuccess
	a.accuracySum += b.accuracySum
	for field, sum := range b.fieldSums {
		a.fieldSums[field] += sum
	}
	for field, count := range b.fieldCounts {
		a.fieldCounts[field] += count
	}
}

// Finalize computes the report. Every division guards its denominator: an
// empty run reports zeros, not a fault.
func (a *Accumulator) Finalize() schema.AggregateReportV1 {
	perField := map[string]float64{}
	for _, field := range schema.FieldsFor(a.workflow) {
		perField[field] = safeMean(a.fieldSums[field], a.fieldCounts[field])
	}
	return schema.AggregateReportV1{
		Workflow:               a.workflow,
		TotalCases:             a.totalCases,
		SchemaCompliantCount:   a.schemaCompliant,
		ProcessingSuccessCount: a.processingSuccess,
		SchemaComplianceRate:   safeRate(a.schemaCompliant, a.totalCases),
		ProcessingSuccessRate:  safeRate(a.processingSuccess, a.totalCases),
		OverallAccuracy:        safeMean(a.accuracySum, a.processingSuccess),
		PerFieldAccuracy:       perField,
	}
}

func safeRate(n int, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func safeMean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
