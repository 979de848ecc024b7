package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"rentalytics.io/rental-agent/internal/session"
)

// ToolDispatcher is the tool-registry boundary: the declarations the
// model is given, and synchronous dispatch by name.
type ToolDispatcher interface {
	Definitions() []llms.Tool
	Dispatch(ctx context.Context, name string, args map[string]any) (string, error)
}

// Chunk is one fragment of a turn, emitted as soon as it is produced:
// either a piece of streamed model text or a completed tool result.
type Chunk struct {
	Text       string
	ToolName   string
	ToolCallID string
}

// AgentService drives a conversation turn: it alternates between
// awaiting the model and executing the tools the model requested,
// until a response arrives with no tool calls.
type AgentService struct {
	llm      ModelClient
	registry ToolDispatcher
	sessions session.Store
	window   int
}

func NewAgentService(llm ModelClient, registry ToolDispatcher, sessions session.Store, historyWindow int) *AgentService {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &AgentService{
		llm:      llm,
		registry: registry,
		sessions: sessions,
		window:   historyWindow,
	}
}

// Run processes one user turn. Streamed model text and tool results
// are passed to emit as they are produced; emit may be nil. The
// returned string is the turn's final accumulated answer.
func (s *AgentService) Run(ctx context.Context, sessionID, userText string, emit func(Chunk)) (string, error) {
	if emit == nil {
		emit = func(Chunk) {}
	}

	s.sessions.Append(sessionID, session.Message{
		Role:    session.RoleHuman,
		Content: userText,
	})

	var final strings.Builder

	for {
		// Each pass re-reads the persisted history, so tool messages
		// appended below are picked up inside the window.
		history := s.sessions.Window(sessionID, s.window)
		messages := make([]llms.MessageContent, 0, len(history)+1)
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
		for _, msg := range history {
			messages = append(messages, toModelMessage(msg))
		}

		choice, err := s.llm.Generate(ctx, messages, s.registry.Definitions(), func(text string) {
			emit(Chunk{Text: text})
		})
		if err != nil {
			return final.String(), fmt.Errorf("model call failed: %w", err)
		}

		final.WriteString(choice.Content)
		s.sessions.Append(sessionID, aiMessage(choice))

		if len(choice.ToolCalls) == 0 {
			return final.String(), nil
		}

		// Execute requested calls strictly in the order the model
		// returned them. Failures are surfaced back to the model as
		// the tool message content so it can recover.
		for _, call := range choice.ToolCalls {
			result := s.executeToolCall(ctx, call)

			toolName := ""
			if call.FunctionCall != nil {
				toolName = call.FunctionCall.Name
			}
			toolMsg := session.Message{
				Role:       session.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
				ToolName:   toolName,
			}
			emit(Chunk{Text: result, ToolName: toolMsg.ToolName, ToolCallID: call.ID})
			s.sessions.Append(sessionID, toolMsg)
		}
	}
}

// History returns a session's full message list, unwindowed.
func (s *AgentService) History(sessionID string) []session.Message {
	return s.sessions.History(sessionID)
}

func (s *AgentService) executeToolCall(ctx context.Context, call llms.ToolCall) string {
	if call.FunctionCall == nil {
		return "error: tool call carried no function"
	}
	name := call.FunctionCall.Name

	args := map[string]any{}
	if raw := call.FunctionCall.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			log.Printf("Tool %s called with unparseable arguments: %v", name, err)
			return fmt.Sprintf("error: invalid tool arguments: %v", err)
		}
	}

	result, err := s.registry.Dispatch(ctx, name, args)
	if err != nil {
		log.Printf("Tool %s failed: %v", name, err)
		return fmt.Sprintf("error: %v", err)
	}
	return result
}

func toModelMessage(msg session.Message) llms.MessageContent {
	switch msg.Role {
	case session.RoleSystem:
		return llms.TextParts(llms.ChatMessageTypeSystem, msg.Content)
	case session.RoleAI:
		out := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		if msg.Content != "" {
			out.Parts = append(out.Parts, llms.TextContent{Text: msg.Content})
		}
		for _, call := range msg.ToolCalls {
			out.Parts = append(out.Parts, llms.ToolCall{
				ID:   call.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		return out
	case session.RoleTool:
		return llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{
				llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.ToolName,
					Content:    msg.Content,
				},
			},
		}
	default:
		return llms.TextParts(llms.ChatMessageTypeHuman, msg.Content)
	}
}

func aiMessage(choice *llms.ContentChoice) session.Message {
	msg := session.Message{
		Role:    session.RoleAI,
		Content: choice.Content,
	}
	for _, call := range choice.ToolCalls {
		if call.FunctionCall == nil {
			continue
		}
		msg.ToolCalls = append(msg.ToolCalls, session.ToolCall{
			ID:        call.ID,
			Name:      call.FunctionCall.Name,
			Arguments: call.FunctionCall.Arguments,
		})
	}
	return msg
}
