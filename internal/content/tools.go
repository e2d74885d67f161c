package content

// ToolName names the tool a ToolUse invoked.
type ToolName string

// Tools with dedicated renderings. Any other name is rendered generically.
const (
	ToolWriteTodos    ToolName = "write_todos"
	ToolWriteContext  ToolName = "write_context"
	ToolReadContext   ToolName = "read_context"
	ToolDelegateTask  ToolName = "delegate_task"
	ToolLoadSkill     ToolName = "load_skill"
	ToolReadSkillFile ToolName = "read_skill_file"
	ToolSummarize     ToolName = "summarize"
)
