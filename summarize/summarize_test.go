package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildPromptSections(t *testing.T) {
	income := "| Category | Actual |\n| --- | --- |\n| Legal Fees | 500 |"
	balance := "| Category | Actual |\n| --- | --- |\n| Attorney Retainer | 200 |"

	p := BuildPrompt(income, balance, "October 2025", true, "")

	if !strings.Contains(p.System, "legal spend") {
		t.Fatal("system prompt should demand the legal spend section")
	}
	if !strings.Contains(p.User, "Period: October 2025") {
		t.Fatal("user prompt should carry the period")
	}
	if !strings.Contains(p.User, "## Income Statement") || !strings.Contains(p.User, "## Balance Sheet") {
		t.Fatal("both statements should be present")
	}
	if !strings.Contains(p.User, "Pre-filtered Legal Line Items") {
		t.Fatal("legal lines should be pre-filtered for emphasis")
	}
	if !strings.Contains(p.User, "Legal Fees") || !strings.Contains(p.User, "Attorney Retainer") {
		t.Fatal("legal keyword lines missing from emphasis section")
	}
}

func TestBuildPromptNoBalanceNoTrim(t *testing.T) {
	p := BuildPrompt("| a |", "", "May 2025", false, "")

	if strings.Contains(p.User, "## Balance Sheet") {
		t.Fatal("empty balance sheet should be omitted")
	}
	if strings.Contains(p.User, "Pre-filtered") {
		t.Fatal("trim disabled should skip the emphasis section")
	}
}

func TestBuildPromptLegalDetails(t *testing.T) {
	p := BuildPrompt("| a |", "", "May 2025", false, "# Legal Details\n- Active litigations: 2")
	if !strings.Contains(p.User, "Homeowner-Submitted Legal Details") {
		t.Fatal("legal details section missing")
	}
}

func TestRelevantLinesCap(t *testing.T) {
	var lines []string
	for range 300 {
		lines = append(lines, "| legal thing |")
	}
	got := relevantLines(strings.Join(lines, "\n"), legalKeywords, 200)
	if n := len(strings.Split(got, "\n")); n != 200 {
		t.Fatalf("expected 200 lines, got %d", n)
	}
}

func TestClientNoAPIKey(t *testing.T) {
	c := NewClient("", "", "", nil)
	if _, err := c.Complete(context.Background(), Prompt{}); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestClientComplete(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  The HOA is on budget.  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "gpt-4.1-mini", nil)
	got, err := c.Complete(context.Background(), Prompt{System: "sys", User: "user"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "The HOA is on budget." {
		t.Fatalf("got %q", got)
	}
	if gotReq.Model != "gpt-4.1-mini" {
		t.Fatalf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Temperature != 0.3 {
		t.Fatalf("temperature = %v", gotReq.Temperature)
	}
}

func TestClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "", nil)
	got, err := c.Complete(context.Background(), Prompt{})
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "", nil)
	if _, err := c.Complete(context.Background(), Prompt{}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
