package chat

// DefaultChatID is used when a turn names no chat.
const DefaultChatID = "default"

type TurnInput struct {
	Identity string
	ChatID   string
	Message  string
}

// TurnOutput is the result of one chat turn.
type TurnOutput struct {
	ChatID         string
	Response       string
	VectorMemories []string
	MemoriesUsed   int
}

type CreateChatInput struct {
	Identity     string
	FirstMessage string
}

type HistoryInput struct {
	Identity string
	ChatID   string
	Limit    int
}

type MemoryQuery struct {
	Identity string
	Query    string
	K        int
}
