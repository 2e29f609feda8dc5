package reconciler

import "time"

// Stage names a pipeline step.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLoad      Stage = "load"
	StageNormalize Stage = "normalize"
	StageClassify  Stage = "classify"
	StageZone      Stage = "zone"
	StageDedupe    Stage = "dedupe"
)

// Stages returns every stage in execution order.
func Stages() []Stage {
	return []Stage{StageLoad, StageNormalize, StageClassify, StageZone, StageDedupe}
}

// String returns the string representation of a stage.
func (s Stage) String() string {
	return string(s)
}

// StageResult records what one stage did.
type StageResult struct {
	Stage    Stage         `json:"stage" yaml:"stage"`
	Input    int           `json:"input" yaml:"input"`
	Output   int           `json:"output" yaml:"output"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Errors   []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// OK reports whether the stage completed without recoverable errors.
func (s StageResult) OK() bool {
	return len(s.Errors) == 0
}

// stageTimer measures one stage.
type stageTimer struct {
	result StageResult
	start  time.Time
}

func startStage(stage Stage, input int) *stageTimer {
	return &stageTimer{
		result: StageResult{Stage: stage, Input: input},
		start:  time.Now(),
	}
}

func (t *stageTimer) fail(err error) {
	t.result.Errors = append(t.result.Errors, err.Error())
}

func (t *stageTimer) done(output int) StageResult {
	t.result.Output = output
	t.result.Duration = time.Since(t.start)
	return t.result
}
