package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantOutcome interaction.Outcome
	}{
		{
			name:        "inline minions",
			body:        `{"a":{"name":"A","type":"MINION","attack":4,"health":5},"b":{"name":"B","type":"MINION","attack":6,"health":3}}`,
			wantStatus:  http.StatusOK,
			wantOutcome: interaction.OutcomeMutualDestruction,
		},
		{
			name:        "inline weapons with wide integers",
			body:        `{"a":{"name":"Axe","type":"WEAPON","attack":{"low":3,"high":0},"durability":2},"b":{"name":"Reaper","type":"WEAPON","attack":2,"durability":"4"}}`,
			wantStatus:  http.StatusOK,
			wantOutcome: interaction.OutcomeBHigherPotential,
		},
		{
			name:        "both by id",
			body:        `{"aId":"CS2_182","bId":"EX1_116"}`,
			wantStatus:  http.StatusOK,
			wantOutcome: interaction.OutcomeMutualDestruction,
		},
		{
			name:        "mixed inline and id",
			body:        `{"a":{"name":"Wisp","type":"MINION","attack":1,"health":1},"bId":"CS2_182"}`,
			wantStatus:  http.StatusOK,
			wantOutcome: interaction.OutcomeBWins,
		},
		{
			name:       "missing b",
			body:       `{"a":{"name":"A","type":"MINION"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "null card",
			body:       `{"a":null,"b":null}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown id",
			body:       `{"aId":"CS2_182","bId":"NOPE"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed json",
			body:       `{"a":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, newTestRouter(newMockCatalog()), http.MethodPost, "/api/compare", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if env.Success {
					t.Error("Expected success false")
				}
				return
			}

			var result interaction.Result
			if err := json.Unmarshal(env.Data, &result); err != nil {
				t.Fatalf("Failed to decode result: %v", err)
			}
			if result.Outcome != tt.wantOutcome {
				t.Errorf("Expected outcome %s, got %s", tt.wantOutcome, result.Outcome)
			}
			if len(result.Narrative) == 0 {
				t.Error("Expected narrative fragments")
			}
		})
	}
}

func TestCompare_ValidationMessage(t *testing.T) {
	_, env := doRequest(t, newTestRouter(newMockCatalog()), http.MethodPost, "/api/compare", `{}`)

	if !strings.Contains(env.Error, "a is required") || !strings.Contains(env.Error, "b is required") {
		t.Errorf("Expected field names in validation error, got %q", env.Error)
	}
}
