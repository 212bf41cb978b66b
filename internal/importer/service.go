package importer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mateflow/mateflow/internal/customers"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/products"
	"github.com/mateflow/mateflow/internal/shared"
)

// ProductWriter bulk-creates products.
type ProductWriter interface {
	Import(ctx context.Context, userID string, inputs []products.ProductInput) (int, error)
}

// CustomerWriter bulk-creates customers.
type CustomerWriter interface {
	Import(ctx context.Context, userID string, inputs []customers.CustomerInput) (int, error)
}

// ExpenseWriter bulk-creates expenses.
type ExpenseWriter interface {
	Import(ctx context.Context, userID string, inputs []expenses.ExpenseInput) (int, error)
}

// BillArchive covers the writes bill imports make directly.
type BillArchive interface {
	FindCustomerID(ctx context.Context, userID, name string) (string, error)
	CreateCustomer(ctx context.Context, userID, name string) (string, error)
	InsertBill(ctx context.Context, userID, customerID string, total float64, status string, createdAt time.Time) error
}

// ChatCompleter is the slice of the OpenAI client used for extracting
// structured rows from document photos.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Result summarizes an import run.
type Result struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
	Message  string   `json:"message"`
}

// Service ingests CSV files and document photos into the business tables.
type Service struct {
	logger    *slog.Logger
	products  ProductWriter
	customers CustomerWriter
	expenses  ExpenseWriter
	bills     BillArchive
	completer ChatCompleter
	model     string
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, productW ProductWriter, customerW CustomerWriter, expenseW ExpenseWriter, bills BillArchive, completer ChatCompleter, model string) *Service {
	return &Service{
		logger:    logger,
		products:  productW,
		customers: customerW,
		expenses:  expenseW,
		bills:     bills,
		completer: completer,
		model:     model,
	}
}

// ImportProducts reads a products CSV (name, price, stock, description).
// Rows without a name are skipped.
func (s *Service) ImportProducts(ctx context.Context, userID string, r io.Reader) (int, error) {
	rows, err := parseCSV(r)
	if err != nil {
		return 0, shared.Invalid("could not parse CSV: " + err.Error())
	}

	inputs := make([]products.ProductInput, 0, len(rows))
	for _, row := range rows {
		if row["name"] == "" {
			continue
		}
		inputs = append(inputs, products.ProductInput{
			Name:        row["name"],
			Price:       parseFloat(row["price"]),
			Stock:       parseInt(row["stock"]),
			Description: row["description"],
		})
	}
	return s.products.Import(ctx, userID, inputs)
}

// ImportCustomers reads a customers CSV (name, email, phone, address, line_id).
func (s *Service) ImportCustomers(ctx context.Context, userID string, r io.Reader) (int, error) {
	rows, err := parseCSV(r)
	if err != nil {
		return 0, shared.Invalid("could not parse CSV: " + err.Error())
	}
	if len(rows) == 0 {
		return 0, shared.Invalid("no data found in CSV")
	}

	inputs := make([]customers.CustomerInput, 0, len(rows))
	for _, row := range rows {
		if row["name"] == "" {
			continue
		}
		inputs = append(inputs, customers.CustomerInput{
			Name:    row["name"],
			Email:   row["email"],
			Phone:   row["phone"],
			Address: row["address"],
			LineID:  row["line_id"],
		})
	}
	return s.customers.Import(ctx, userID, inputs)
}

// ImportExpenses accepts either a CSV or a receipt photo. Photos go through
// the model for structured extraction. Rows with a non-positive amount are
// dropped.
func (s *Service) ImportExpenses(ctx context.Context, userID, contentType string, data []byte) (int, error) {
	var rows []map[string]string
	var err error

	if strings.HasPrefix(contentType, "image/") {
		rows, err = s.extractRows(ctx, contentType, data,
			"Extract expense data (Title, Amount, Category, Date usually in YYYY-MM-DD, Description) from this image. Return a JSON array of objects with keys title, amount, category, date, description.")
	} else {
		rows, err = parseCSV(bytes.NewReader(data))
	}
	if err != nil {
		return 0, err
	}

	inputs := make([]expenses.ExpenseInput, 0, len(rows))
	for _, row := range rows {
		amount := parseFloat(row["amount"])
		if amount <= 0 {
			continue
		}
		title := row["title"]
		if title == "" {
			title = "Untitled Expense"
		}
		inputs = append(inputs, expenses.ExpenseInput{
			Title:       title,
			Amount:      amount,
			Category:    row["category"],
			Description: row["description"],
			Date:        parseDate(row["date"]),
		})
	}
	return s.expenses.Import(ctx, userID, inputs)
}

// ImportBills accepts a CSV or a photo of past bills. Unknown customers are
// created on the fly; rows that still fail are reported, not fatal.
func (s *Service) ImportBills(ctx context.Context, userID, contentType string, data []byte) (Result, error) {
	var rows []map[string]string
	var err error

	if strings.HasPrefix(contentType, "image/") {
		rows, err = s.extractRows(ctx, contentType, data,
			"Extract bill data (Customer Name, Total Amount, Date, Status) from this image. Return a JSON array of objects with keys customer_name, total_amount, date, status.")
	} else {
		rows, err = parseCSV(bytes.NewReader(data))
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{}
	resolved := map[string]string{}

	for _, row := range rows {
		name := row["customer_name"]
		if name == "" {
			name = "Guest Customer"
		}

		customerID, ok := resolved[strings.ToLower(name)]
		if !ok {
			customerID, err = s.bills.FindCustomerID(ctx, userID, name)
			if err != nil {
				customerID, err = s.bills.CreateCustomer(ctx, userID, name)
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("row skipped: failed to create customer %q", name))
					continue
				}
			}
			resolved[strings.ToLower(name)] = customerID
		}

		status := strings.ToLower(row["status"])
		if status == "" {
			status = "paid"
		}
		if err := s.bills.InsertBill(ctx, userID, customerID, parseFloat(row["total_amount"]), status, parseDate(row["date"])); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to import bill for %s: %s", name, shared.UserSafeMessage(err)))
			continue
		}
		result.Imported++
	}

	result.Message = fmt.Sprintf("Imported %d bills successfully.", result.Imported)
	if len(result.Errors) > 0 {
		result.Message += fmt.Sprintf(" %d errors occurred.", len(result.Errors))
	}
	return result, nil
}

// extractRows asks the model to read a document photo into structured rows.
// Values come back as strings regardless of the JSON type the model chose.
func (s *Service) extractRows(ctx context.Context, contentType string, data []byte, prompt string) ([]map[string]string, error) {
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)

	resp, err := s.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("extraction returned no choices")
	}

	raw := stripFences(resp.Choices[0].Message.Content)
	var generic []map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("parse extraction result: %w", err)
	}

	rows := make([]map[string]string, 0, len(generic))
	for _, entry := range generic {
		row := make(map[string]string, len(entry))
		for key, value := range entry {
			switch v := value.(type) {
			case string:
				row[key] = v
			case float64:
				row[key] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				row[key] = strconv.FormatBool(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}
