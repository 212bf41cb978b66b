package assistant

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/number"

	"github.com/mateflow/mateflow/internal/dashboard"
	"github.com/mateflow/mateflow/internal/products"
)

// ChatCompleter is the slice of the OpenAI client the assistant uses. The
// concrete client is constructed once at startup and injected, so tests can
// substitute a scripted double.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// MessageStore persists the chat transcript.
type MessageStore interface {
	ListMessages(ctx context.Context, userID string) ([]Message, error)
	AppendMessage(ctx context.Context, userID string, role Role, content string) (*Message, error)
}

// StatsProvider supplies the business snapshot for the prompt.
type StatsProvider interface {
	Stats(ctx context.Context, userID, salesRange, profitRange string) (dashboard.Stats, error)
}

// InventoryProvider supplies the low-stock summary for the prompt.
type InventoryProvider interface {
	InventorySummary(ctx context.Context, userID string) ([]products.StockSummary, error)
}

// CSVImporter handles spreadsheet uploads attached to chat messages.
type CSVImporter interface {
	ImportProducts(ctx context.Context, userID string, r io.Reader) (int, error)
}

// Service runs the chat loop: persist the user turn, ask the model with
// business context and tools, execute any commands, persist the reply.
type Service struct {
	logger     *slog.Logger
	store      MessageStore
	completer  ChatCompleter
	dispatcher *Dispatcher
	stats      StatsProvider
	inventory  InventoryProvider
	importer   CSVImporter
	model      string
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, store MessageStore, completer ChatCompleter, dispatcher *Dispatcher, stats StatsProvider, inventory InventoryProvider, importer CSVImporter, model string) *Service {
	return &Service{
		logger:     logger,
		store:      store,
		completer:  completer,
		dispatcher: dispatcher,
		stats:      stats,
		inventory:  inventory,
		importer:   importer,
		model:      model,
	}
}

// Messages returns the user's transcript, oldest first.
func (s *Service) Messages(ctx context.Context, userID string) ([]Message, error) {
	return s.store.ListMessages(ctx, userID)
}

// Send processes one user turn. The assistant reply is always persisted,
// including the apology produced when the model is unreachable.
func (s *Service) Send(ctx context.Context, userID, content string, attachment *Attachment) (*Message, error) {
	systemLog := ""
	var imagePart *openai.ChatMessagePart

	if attachment != nil && len(attachment.Data) > 0 {
		if strings.HasPrefix(attachment.ContentType, "image/") {
			dataURL := "data:" + attachment.ContentType + ";base64," + base64.StdEncoding.EncodeToString(attachment.Data)
			imagePart = &openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
			}
			systemLog = "\n\n[System Log]: User uploaded an image. Please analyze it for product data."
		} else {
			count, err := s.importer.ImportProducts(ctx, userID, bytes.NewReader(attachment.Data))
			if err != nil {
				systemLog = "\n\n[System Log]: User uploaded a file but it failed: " + err.Error()
			} else {
				systemLog = fmt.Sprintf("\n\n[System Log]: User uploaded a file. Imported %d products.", count)
			}
		}
	}

	if _, err := s.store.AppendMessage(ctx, userID, RoleUser, content); err != nil {
		return nil, err
	}

	reply, err := s.generate(ctx, userID, content, systemLog, imagePart)
	if err != nil {
		s.logger.Error("assistant completion", slog.Any("error", err))
		reply = fallbackReply(err, time.Now())
	}

	return s.store.AppendMessage(ctx, userID, RoleAssistant, reply)
}

func (s *Service) generate(ctx context.Context, userID, content, systemLog string, imagePart *openai.ChatMessagePart) (string, error) {
	prompt, err := s.buildPrompt(ctx, userID, content, systemLog)
	if err != nil {
		return "", err
	}

	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt}
	if imagePart != nil {
		userMsg = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				*imagePart,
			},
		}
	}

	resp, err := s.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: []openai.ChatCompletionMessage{userMsg},
		Tools:    chatTools(),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return msg.Content, nil
	}

	results := make([]string, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		cmd, err := ParseCommand(call.Function.Name, json.RawMessage(call.Function.Arguments))
		if err != nil {
			var unknown *UnknownCommandError
			if errors.As(err, &unknown) {
				s.logger.Warn("assistant unknown command", slog.String("name", unknown.Name))
				results = append(results, fmt.Sprintf("I don't support the %q action yet.", unknown.Name))
				continue
			}
			results = append(results, "I couldn't run that action: "+err.Error())
			continue
		}
		results = append(results, s.dispatcher.Execute(ctx, userID, cmd))
	}
	return strings.Join(results, "\n"), nil
}

func (s *Service) buildPrompt(ctx context.Context, userID, content, systemLog string) (string, error) {
	stats, err := s.stats.Stats(ctx, userID, "7d", "7d")
	if err != nil {
		return "", err
	}
	inventory, err := s.inventory.InventorySummary(ctx, userID)
	if err != nil {
		return "", err
	}

	inventoryList := "No inventory data available."
	if len(inventory) > 0 {
		lines := make([]string, 0, len(inventory))
		for _, p := range inventory {
			lines = append(lines, fmt.Sprintf("- %s: %d units", p.Name, p.Stock))
		}
		inventoryList = strings.Join(lines, "\n")
	}

	return chatPrinter.Sprintf(`You are MateFlow, a helpful business assistant.

Here is the current business status (Real-time data):
- Total Revenue: ฿%v
- Total Orders: %d
- Low Stock Items: %d (Needs attention!)
- Active Users Now: %d

Current Inventory (Top items / Low stock first):
%s

User's message: %q
%s

Answer the user's question based on this data. Be friendly, professional, and concise.
If the user uploaded an image, analyze it to extract product details (Name, Stock, Price) and use the 'createProduct' or 'updateProduct' tools to update the inventory.
If the user wants to perform an action (products, customers, bills, expenses), call the appropriate function.
If the user wants to create a bill or invoice, use the 'createBill' function with the customer name and product items.
If the user asks to see, find, or print an existing bill or quotation, use 'getBillStatus' to find it.
When asked about expenses, use listExpenses to see recent ones if needed.
IMPORTANT: When creating an expense, you MUST categorize it into one of these: 'Supplies', 'Transport', 'Food', 'Utilities', 'Wages', 'Rent', 'Other'. Choose the best fit.`,
		number.Decimal(stats.TotalRevenue),
		stats.TotalOrders,
		stats.LowStockItems,
		stats.ActiveNow,
		inventoryList,
		content,
		systemLog,
	), nil
}

// fallbackReply maps completion failures to a user-facing apology. Quota
// exhaustion promises a retry at the next midnight.
func fallbackReply(err error, now time.Time) string {
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "Too Many Requests") {
		tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		return fmt.Sprintf("😅 Apologies, I've exceeded my quota for now. I'll be back on %s at %s.",
			tomorrow.Format("Monday, January 2, 2006"), tomorrow.Format("03:04 PM"))
	}
	return "😔 Sorry, I'm having trouble connecting right now. Please try again later."
}
