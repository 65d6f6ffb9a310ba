package ports

// TurnMetrics records the fate of orchestrated turns and gate decisions.
type TurnMetrics interface {
	RecordTurn()
	RecordConflict()
	RecordFailure()
	RecordAdmission(admitted bool)
}
