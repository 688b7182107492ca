package cards

import (
	"encoding/json"
	"testing"
)

func TestInt64(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   int64
		wantOK bool
	}{
		{name: "nil", input: nil, wantOK: false},
		{name: "int", input: 7, want: 7, wantOK: true},
		{name: "driver int64", input: int64(12), want: 12, wantOK: true},
		{name: "float64", input: float64(3), want: 3, wantOK: true},
		{name: "json number", input: json.Number("5"), want: 5, wantOK: true},
		{name: "numeric string", input: " 9 ", want: 9, wantOK: true},
		{name: "non numeric string", input: "abc", wantOK: false},
		{name: "wide integer", input: map[string]any{"low": int64(4), "high": int64(0)}, want: 4, wantOK: true},
		{name: "wide integer high half", input: map[string]any{"low": int64(1), "high": int64(1)}, want: 1<<32 + 1, wantOK: true},
		{name: "map missing halves", input: map[string]any{"low": int64(4)}, wantOK: false},
		{name: "bool", input: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Int64(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Int64(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Int64(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromMap_PreservesNullStats(t *testing.T) {
	card := FromMap(map[string]any{
		"id":   "CS2_029",
		"name": "Fireball",
		"type": "SPELL",
		"cost": map[string]any{"low": int64(4), "high": int64(0)},
	})

	if card.Cost == nil || *card.Cost != 4 {
		t.Fatalf("Expected cost 4, got %v", card.Cost)
	}
	if card.Attack != nil {
		t.Errorf("Expected nil attack, got %d", *card.Attack)
	}
	if card.Health != nil {
		t.Errorf("Expected nil health, got %d", *card.Health)
	}
	if card.Durability != nil {
		t.Errorf("Expected nil durability, got %d", *card.Durability)
	}
	if card.Race != nil {
		t.Errorf("Expected nil race, got %q", *card.Race)
	}
}

func TestFromMap_NilRecord(t *testing.T) {
	if FromMap(nil) != nil {
		t.Error("Expected nil card for nil map")
	}
}

func TestFromMap_SetAndCollectible(t *testing.T) {
	tests := []struct {
		name            string
		raw             map[string]any
		wantSets        []string
		wantCollectible bool
	}{
		{
			name:            "string set, bool flag",
			raw:             map[string]any{"set": "CORE", "collectible": true},
			wantSets:        []string{"CORE"},
			wantCollectible: true,
		},
		{
			name:            "list set, string flag",
			raw:             map[string]any{"set": []any{"EXPERT1", "LEGACY"}, "collectible": "true"},
			wantSets:        []string{"EXPERT1", "LEGACY"},
			wantCollectible: true,
		},
		{
			name:            "missing set, false string flag",
			raw:             map[string]any{"collectible": "false"},
			wantSets:        []string{},
			wantCollectible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := FromMap(tt.raw)
			if len(card.Set) != len(tt.wantSets) {
				t.Fatalf("Expected sets %v, got %v", tt.wantSets, card.Set)
			}
			for i := range tt.wantSets {
				if card.Set[i] != tt.wantSets[i] {
					t.Errorf("Set[%d] = %q, want %q", i, card.Set[i], tt.wantSets[i])
				}
			}
			if card.Collectible != tt.wantCollectible {
				t.Errorf("Collectible = %v, want %v", card.Collectible, tt.wantCollectible)
			}
		})
	}
}

func TestIdentifier_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want string
	}{
		{name: "id wins", card: Card{ID: "A", CardID: "B", DbfID: "1"}, want: "A"},
		{name: "cardId next", card: Card{CardID: "B", DbfID: "1"}, want: "B"},
		{name: "dbfId last", card: Card{DbfID: "1"}, want: "1"},
		{name: "none", card: Card{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Identifier(); got != tt.want {
				t.Errorf("Identifier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCard_UnmarshalJSON_RawShape(t *testing.T) {
	data := []byte(`{"cardId":"EX1_116","dbfId":559,"name":"Leeroy Jenkins","type":"MINION",
		"cost":5,"attack":6,"health":2,"set":"LEGACY","collectible":"true"}`)

	var card Card
	if err := json.Unmarshal(data, &card); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if card.DbfID != "559" {
		t.Errorf("Expected dbfId 559, got %q", card.DbfID)
	}
	if card.Attack == nil || *card.Attack != 6 {
		t.Errorf("Expected attack 6, got %v", card.Attack)
	}
	if !card.Collectible {
		t.Error("Expected collectible card")
	}
	if card.Identifier() != "EX1_116" {
		t.Errorf("Expected identifier EX1_116, got %q", card.Identifier())
	}
}

func TestCard_UnmarshalJSON_Null(t *testing.T) {
	var card Card
	if err := json.Unmarshal([]byte(`null`), &card); err == nil {
		t.Error("Expected error for null card")
	}
}
