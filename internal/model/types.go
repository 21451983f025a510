package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Individual is one candidate solution: a decision vector plus cached
// evaluation results. F and CV are meaningful only when Evaluated is true;
// variation and repair touch X alone.
type Individual struct {
	X         []float64 `json:"x"`
	F         float64   `json:"f"`
	CV        float64   `json:"cv"`
	Evaluated bool      `json:"evaluated"`
}

// Feasible reports whether the individual has been evaluated and carries
// zero constraint violation.
func (ind *Individual) Feasible() bool {
	return ind.Evaluated && ind.CV <= 0
}

// Clone returns a deep copy with its own decision vector.
func (ind *Individual) Clone() *Individual {
	out := *ind
	out.X = append([]float64(nil), ind.X...)
	return &out
}

// SetEvaluation writes the cached evaluation results. Only the evaluation
// step of the engine calls this.
func (ind *Individual) SetEvaluation(f, cv float64) {
	ind.F = f
	ind.CV = cv
	ind.Evaluated = true
}

// ResetEvaluation invalidates cached results after X changed.
func (ind *Individual) ResetEvaluation() {
	ind.F = 0
	ind.CV = 0
	ind.Evaluated = false
}

// GenerationStats summarizes one generation of a run.
type GenerationStats struct {
	Generation    int      `json:"generation"`
	Evaluations   int      `json:"evaluations"`
	MinViolation  float64  `json:"min_violation"`
	MeanViolation float64  `json:"mean_violation"`
	FeasibleCount int      `json:"feasible_count"`
	BestFeasible  *float64 `json:"best_feasible,omitempty"`
	MeanFeasible  *float64 `json:"mean_feasible,omitempty"`
}

// RunRecord is the persisted description and outcome of one engine run.
type RunRecord struct {
	VersionedRecord
	RunID          string   `json:"run_id"`
	CreatedAtUTC   string   `json:"created_at_utc"`
	Problem        string   `json:"problem"`
	Dimension      int      `json:"dimension"`
	PopulationSize int      `json:"population_size"`
	Generations    int      `json:"generations"`
	Evaluations    int      `json:"evaluations"`
	Seed           int64    `json:"seed"`
	RepairEnabled  bool     `json:"repair_enabled"`
	Repair         string   `json:"repair,omitempty"`
	Ranking        string   `json:"ranking"`
	StopReason     string   `json:"stop_reason"`
	BestFeasible   *float64 `json:"best_feasible,omitempty"`
}

// BestRecord is the persisted best feasible individual of a run.
type BestRecord struct {
	VersionedRecord
	RunID      string     `json:"run_id"`
	Found      bool       `json:"found"`
	Individual Individual `json:"individual"`
}
