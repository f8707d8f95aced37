package types

// CreateChatResponse is returned by POST /api/v1/chats
type CreateChatResponse struct {
	ChatId string `json:"chatId"`
}

// ChatSummary is one row in the chat list
type ChatSummary struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

// ListChatsResponse is returned by GET /api/v1/chats
type ListChatsResponse struct {
	Chats []ChatSummary `json:"chats"`
}

// ChatMessage is one message in a chat history response
type ChatMessage struct {
	Id        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ListMessagesRequest identifies the chat whose history is requested
type ListMessagesRequest struct {
	ChatId string `path:"chatId"`
}

// ListMessagesResponse is returned by GET /api/v1/chats/{chatId}/messages
type ListMessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// SendMessageRequest is the body of POST /api/v1/chat.
// Images are base64-encoded JPEG payloads attached to the current turn.
type SendMessageRequest struct {
	Message        string   `json:"message"`
	ChatId         string   `json:"chatId"`
	Model          string   `json:"model"`
	Images         []string `json:"images"`
	ThinkingEffort string   `json:"thinkingEffort"`
}

// SendMessageResponse is either a text reply or a generated image.
// Type is "text" (Reply set) or "image" (Url and Caption set).
type SendMessageResponse struct {
	Type    string `json:"type"`
	Reply   string `json:"reply,omitempty"`
	Url     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
}
