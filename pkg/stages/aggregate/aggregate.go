// Package aggregate folds per-shot results into the outcome of an operation.
package aggregate

import (
	"github.com/user/shots/pkg/pipeline"
)

// Fold collects tests into a Result. Success holds iff every task succeeded;
// an empty run is successful.
func Fold(task string, tests []pipeline.ShotTask) *pipeline.Result {
	result := &pipeline.Result{
		Task:    task,
		Success: true,
		Fails:   []pipeline.ShotTask{},
		Tests:   append([]pipeline.ShotTask{}, tests...),
	}
	for _, t := range tests {
		if !t.Success {
			result.Success = false
			result.Fails = append(result.Fails, t)
		}
	}
	return result
}

// Aggregate folds tests and turns a failed Result into a failed Outcome
// carrying a *pipeline.ComparisonFailure.
func Aggregate(task string, tests []pipeline.ShotTask) pipeline.Outcome {
	result := Fold(task, tests)
	if result.Success {
		return pipeline.Succeeded(task, result)
	}
	return pipeline.Failed(task, &pipeline.ComparisonFailure{
		Task:   task,
		Failed: len(result.Fails),
		Total:  len(result.Tests),
	}, result)
}
