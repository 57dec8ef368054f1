package loam

// ProgramMetadata is the frontmatter of a program document.
// The document body holds the program source, optionally inside a fenced code block.
type ProgramMetadata struct {
	ID          string `json:"id" mapstructure:"id"`
	Description string `json:"description" mapstructure:"description"`
	// Input is an example tape shipped with the program.
	Input string `json:"input" mapstructure:"input"`
}
