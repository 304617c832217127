package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"meal-labels/internal/domain"
)

// recordingContainer behaves like a DOM element: SetText replaces every
// child, Clear empties it.
type recordingContainer struct {
	clears int
	text   string
	cards  []domain.Card
}

func (c *recordingContainer) Clear() {
	c.clears++
	c.text = ""
	c.cards = nil
}

func (c *recordingContainer) SetText(text string) {
	c.text = text
	c.cards = nil
}

func (c *recordingContainer) AppendCard(card domain.Card) {
	c.cards = append(c.cards, card)
}

type stubSource struct {
	file *domain.UploadFile
	err  error
}

func (s stubSource) Selected() (*domain.UploadFile, error) {
	return s.file, s.err
}

func csvFile(name, content string) *domain.UploadFile {
	return &domain.UploadFile{Name: name, Content: io.NopCloser(strings.NewReader(content))}
}

type fakeProcessor struct {
	body     string
	err      error
	calls    int
	lastName string
	lastData string
}

func (p *fakeProcessor) ProcessCSV(ctx context.Context, file *domain.UploadFile) (*domain.ProcessResponse, error) {
	p.calls++
	p.lastName = file.Name
	data, _ := io.ReadAll(file.Content)
	p.lastData = string(data)
	if p.err != nil {
		return nil, p.err
	}
	var resp domain.ProcessResponse
	if err := json.Unmarshal([]byte(p.body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

const annLeeReply = `{"labels":[{"customer_first_name":"Ann","customer_last_name":"Lee","product":"Bowl","variant":"Large","price":9.5,"expiry_date":"2024-01-01","calories":500,"protein":30,"carbs":40,"fat":10,"preparation":"Heat 2 min"}]}`

func cardTexts(card domain.Card) []string {
	out := make([]string, 0, len(card.Lines))
	for _, l := range card.Lines {
		out = append(out, l.Text())
	}
	return out
}

func TestUploadHandler_NoFile(t *testing.T) {
	processor := &fakeProcessor{body: annLeeReply}
	out := &recordingContainer{cards: []domain.Card{{Heading: "stale"}}}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{}, out)

	if result.Outcome != OutcomeNoFile {
		t.Fatalf("expected outcome %s, got %s", OutcomeNoFile, result.Outcome)
	}
	if processor.calls != 0 {
		t.Fatalf("expected no network call, got %d", processor.calls)
	}
	if out.text != "Please upload a CSV file." {
		t.Fatalf("unexpected container text: %q", out.text)
	}
	if len(out.cards) != 0 {
		t.Fatalf("expected stale cards to be cleared, got %d", len(out.cards))
	}
}

func TestUploadHandler_RendersScenario(t *testing.T) {
	processor := &fakeProcessor{body: annLeeReply}
	out := &recordingContainer{}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("meals.csv", "Customer,Product\n")}, out)

	if result.Outcome != OutcomeRendered || result.Cards != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if processor.calls != 1 || processor.lastName != "meals.csv" || processor.lastData != "Customer,Product\n" {
		t.Fatalf("unexpected upload: calls=%d name=%q data=%q", processor.calls, processor.lastName, processor.lastData)
	}
	if out.clears != 1 {
		t.Fatalf("expected container to be cleared once, got %d", out.clears)
	}
	if len(out.cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(out.cards))
	}

	card := out.cards[0]
	if card.Heading != "Ann Lee" {
		t.Fatalf("unexpected heading: %q", card.Heading)
	}
	want := []string{
		"Product: Bowl Large",
		"Price: $9.5",
		"Expiry Date: 2024-01-01",
		"Calories: 500",
		"Protein: 30g",
		"Carbs: 40g",
		"Fat: 10g",
		"Preparation: Heat 2 min",
	}
	got := cardTexts(card)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected card lines:\n got: %q\nwant: %q", got, want)
	}
}

func TestUploadHandler_PreservesOrder(t *testing.T) {
	processor := &fakeProcessor{body: `{"labels":[
		{"customer_first_name":"C","customer_last_name":"3"},
		{"customer_first_name":"A","customer_last_name":"1"},
		{"customer_first_name":"B","customer_last_name":"2"}
	]}`}
	out := &recordingContainer{}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

	if result.Cards != 3 || len(out.cards) != 3 {
		t.Fatalf("expected 3 cards, got result=%d rendered=%d", result.Cards, len(out.cards))
	}
	for i, want := range []string{"C 3", "A 1", "B 2"} {
		if out.cards[i].Heading != want {
			t.Fatalf("card %d: expected heading %q, got %q", i, want, out.cards[i].Heading)
		}
	}
}

func TestUploadHandler_ModifiersLine(t *testing.T) {
	processor := &fakeProcessor{body: `{"labels":[
		{"customer_first_name":"A","modifiers":"No onions"},
		{"customer_first_name":"B","modifiers":""},
		{"customer_first_name":"C","modifiers":null},
		{"customer_first_name":"D"}
	]}`}
	out := &recordingContainer{}

	NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

	if len(out.cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(out.cards))
	}
	first := cardTexts(out.cards[0])
	if first[1] != "Modifiers: No onions" {
		t.Fatalf("expected modifiers line verbatim, got %q", first[1])
	}
	for _, card := range out.cards[1:] {
		for _, line := range card.Lines {
			if line.Label == "Modifiers" {
				t.Fatalf("card %q should not have a modifiers line", card.Heading)
			}
		}
	}
}

func TestUploadHandler_ServerErrorTakesPrecedence(t *testing.T) {
	processor := &fakeProcessor{body: `{"error":"bad file","labels":[{"customer_first_name":"Ann"}]}`}
	out := &recordingContainer{}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

	if result.Outcome != OutcomeServerError {
		t.Fatalf("expected outcome %s, got %s", OutcomeServerError, result.Outcome)
	}
	if out.text != "Error: bad file" {
		t.Fatalf("unexpected container text: %q", out.text)
	}
	if len(out.cards) != 0 {
		t.Fatalf("expected no cards, got %d", len(out.cards))
	}
}

func TestUploadHandler_FalsyErrorFallsThroughToLabels(t *testing.T) {
	processor := &fakeProcessor{body: `{"error":"","labels":[{"customer_first_name":"Ann"}]}`}
	out := &recordingContainer{}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

	if result.Outcome != OutcomeRendered || len(out.cards) != 1 {
		t.Fatalf("expected labels to render, got %+v with %d cards", result, len(out.cards))
	}
}

func TestUploadHandler_TransportFailure(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("dial tcp 127.0.0.1:5000: connection refused")}
	out := &recordingContainer{}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

	if result.Outcome != OutcomeFailed || result.Err == nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	if out.text != "Error: dial tcp 127.0.0.1:5000: connection refused" {
		t.Fatalf("unexpected container text: %q", out.text)
	}
}

func TestUploadHandler_SourceFailure(t *testing.T) {
	processor := &fakeProcessor{body: annLeeReply}
	out := &recordingContainer{}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{err: errors.New("open meals.csv: permission denied")}, out)

	if result.Outcome != OutcomeFailed || processor.calls != 0 {
		t.Fatalf("unexpected result %+v with %d calls", result, processor.calls)
	}
	if out.text != "Error: open meals.csv: permission denied" {
		t.Fatalf("unexpected container text: %q", out.text)
	}
}

func TestUploadHandler_NeitherFieldIsSilent(t *testing.T) {
	processor := &fakeProcessor{body: `{"storage":"Keep cold"}`}
	out := &recordingContainer{text: "stale"}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

	if result.Outcome != OutcomeEmpty {
		t.Fatalf("expected outcome %s, got %s", OutcomeEmpty, result.Outcome)
	}
	if result.Storage != "Keep cold" {
		t.Fatalf("expected storage instruction to be reported, got %q", result.Storage)
	}
	if out.text != "" || len(out.cards) != 0 {
		t.Fatalf("expected blank container, got text=%q cards=%d", out.text, len(out.cards))
	}
}

func TestUploadHandler_EmptyLabelsList(t *testing.T) {
	processor := &fakeProcessor{body: `{"labels":[]}`}
	out := &recordingContainer{}

	result := NewUploadHandler(processor).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

	if result.Outcome != OutcomeRendered || result.Cards != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if out.text != "" || len(out.cards) != 0 {
		t.Fatalf("expected blank container, got text=%q cards=%d", out.text, len(out.cards))
	}
}

func TestUploadHandler_MalformedLabels(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "not a list", body: `{"labels":"oops"}`, want: domain.ErrLabelsNotList},
		{name: "entry not an object", body: `{"labels":[{"customer_first_name":"A"},42]}`, want: domain.ErrLabelNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &recordingContainer{}
			result := NewUploadHandler(&fakeProcessor{body: tt.body}).Handle(context.Background(), stubSource{file: csvFile("a.csv", "")}, out)

			if result.Outcome != OutcomeFailed || !errors.Is(result.Err, tt.want) {
				t.Fatalf("unexpected result: %+v", result)
			}
			if !strings.HasPrefix(out.text, "Error: ") || len(out.cards) != 0 {
				t.Fatalf("expected only an error message, got text=%q cards=%d", out.text, len(out.cards))
			}
		})
	}
}

func TestUploadHandler_RepeatedCallsDoNotAccumulate(t *testing.T) {
	processor := &fakeProcessor{body: annLeeReply}
	out := &recordingContainer{}
	handler := NewUploadHandler(processor)

	handler.Handle(context.Background(), stubSource{file: csvFile("meals.csv", "x")}, out)
	first := append([]domain.Card(nil), out.cards...)
	handler.Handle(context.Background(), stubSource{file: csvFile("meals.csv", "x")}, out)

	if len(out.cards) != len(first) || len(out.cards) != 1 {
		t.Fatalf("expected identical single card after two runs, got %d then %d", len(first), len(out.cards))
	}
	if strings.Join(cardTexts(out.cards[0]), "|") != strings.Join(cardTexts(first[0]), "|") {
		t.Fatalf("expected identical card content across runs")
	}
}
