package trend

// Stage names as they appear in logs, metrics and error reports.
const (
	StageCollect = "collect"
	StageAnalyze = "analyze"
	StageDetect  = "detect"
	StagePersist = "persist"
	StageNotify  = "notify"
)

// CollectionError aborts a run at the collect stage.
type CollectionError struct {
	Err error
}

func (e *CollectionError) Error() string { return "collection failed: " + e.Err.Error() }
func (e *CollectionError) Unwrap() error { return e.Err }

// AnalysisError aborts a run at the analyze stage.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return "analysis failed: " + e.Err.Error() }
func (e *AnalysisError) Unwrap() error { return e.Err }

// PersistenceError aborts a run after the store transaction rolled back.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persistence failed: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }
