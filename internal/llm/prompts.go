package llm

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

var (
	//go:embed prompts/anomaly_detect.txt
	anomalyDetectPrompt string
	//go:embed prompts/contract_compare.txt
	contractComparePrompt string
	//go:embed prompts/document_chat.txt
	documentChatPrompt string
	//go:embed prompts/document_summary.txt
	documentSummaryPrompt string
)

var prompts = template.Must(template.New("prompts").Parse(""))

func init() {
	template.Must(prompts.New("anomaly_detect").Parse(anomalyDetectPrompt))
	template.Must(prompts.New("contract_compare").Parse(contractComparePrompt))
	template.Must(prompts.New("document_chat").Parse(documentChatPrompt))
	template.Must(prompts.New("document_summary").Parse(documentSummaryPrompt))
}

// AnomalyInput fills the anomaly detection prompt.
type AnomalyInput struct {
	Project   string
	StartDate string
	FinalFile string
	FinalText string
	DailyFile string
	DailyText string
}

// CompareInput fills the contract comparison prompt.
type CompareInput struct {
	Project    string
	FirstFile  string
	FirstText  string
	SecondFile string
	SecondText string
}

// DocumentInput fills the document chat and summary prompts.
type DocumentInput struct {
	Project  string
	FileName string
	Text     string
}

const (
	systemAnomalies = "You detect construction compliance anomalies."
	systemCompare   = "You compare construction contracts."
	systemChat      = "You answer user questions based on provided documents."
	systemSummary   = "You summarize construction documents."
)

// AnomalyDetectRequest builds the request for anomaly detection. The model
// must answer with one "•" record per anomaly and "|"-separated fields.
func AnomalyDetectRequest(in AnomalyInput) (Request, error) {
	prompt, err := render("anomaly_detect", in)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Messages: []Message{
			{Role: RoleSystem, Content: systemAnomalies},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: 0.1,
	}, nil
}

// ContractCompareRequest builds the request for a two-contract comparison.
func ContractCompareRequest(in CompareInput) (Request, error) {
	prompt, err := render("contract_compare", in)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Messages: []Message{
			{Role: RoleSystem, Content: systemCompare},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: 0.2,
	}, nil
}

// DocumentChatRequest builds a chat request grounded on one document. History
// is replayed between the document context and the new question.
func DocumentChatRequest(in DocumentInput, history []Message, question string) (Request, error) {
	prompt, err := render("document_chat", in)
	if err != nil {
		return Request{}, err
	}
	messages := []Message{
		{Role: RoleSystem, Content: systemChat},
		{Role: RoleSystem, Content: prompt},
	}
	for _, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			continue
		}
		messages = append(messages, m)
	}
	messages = append(messages, Message{Role: RoleUser, Content: question})
	return Request{Messages: messages, Temperature: 0.1}, nil
}

// DocumentSummaryRequest builds a summary request for one document.
func DocumentSummaryRequest(in DocumentInput) (Request, error) {
	prompt, err := render("document_summary", in)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Messages: []Message{
			{Role: RoleSystem, Content: systemSummary},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: 0.2,
	}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}
