package types

// Action is the verdict an evaluator records for a file. Processors act on
// the action unless the reviewer overrides it in the decision column.
type Action string

const (
	ActionSkip    Action = "skip"
	ActionMove    Action = "move"
	ActionConvert Action = "convert"
)

// Decision values recognized in the human-edited decision column. Any other
// value, or an empty column, means no destructive action is taken.
const (
	DecisionDelete    = "delete"
	DecisionOverwrite = "overwrite"
)

// DupeType marks which side of a duplicate pair a row belongs to.
const (
	DupeBig   = "dupe_big"
	DupeSmall = "dupe_small"
)
