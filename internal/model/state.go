package model

// RunState is the persisted record of the most recent run for a source file.
// It backs the show and status commands and survives between invocations in
// the project root.
type RunState struct {
	Session    string    `json:"session"`
	Timestamp  string    `json:"timestamp"`
	SourceFile Path      `json:"source_file"`
	TestFile   Path      `json:"test_file"`
	Result     RunResult `json:"result"`
}
