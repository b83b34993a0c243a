package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseLocalDateTime(t *testing.T) {
	cases := map[string]string{
		"2025-03-14T19:30:00":        "2025-03-14T19:30:00",
		"2025-03-14T19:30":           "2025-03-14T19:30:00",
		"2025-03-14T19:30:00.123456": "2025-03-14T19:30:00",
	}

	for input, want := range cases {
		got, err := ParseLocalDateTime(input)
		if err != nil {
			t.Fatalf("ParseLocalDateTime(%q) failed: %v", input, err)
		}
		if got.String() != want {
			t.Fatalf("ParseLocalDateTime(%q) = %s, want %s", input, got, want)
		}
	}

	if _, err := ParseLocalDateTime("14/03/2025 19:30"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestReservationJSONUsesWireNames(t *testing.T) {
	start, err := ParseLocalDateTime("2025-03-14T19:30:00")
	if err != nil {
		t.Fatal(err)
	}

	r := Reservation{
		ID:        7,
		Table:     Table{ID: 2, Number: 12, Capacity: 4},
		Start:     start,
		End:       start.Add(2 * time.Hour),
		PartySize: 3,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if raw["dataHoraInicio"] != "2025-03-14T19:30:00" {
		t.Fatalf("unexpected start: %v", raw["dataHoraInicio"])
	}
	if raw["dataHoraFim"] != "2025-03-14T21:30:00" {
		t.Fatalf("unexpected end: %v", raw["dataHoraFim"])
	}
	mesa, ok := raw["mesa"].(map[string]any)
	if !ok || mesa["numeroMesa"] != float64(12) {
		t.Fatalf("unexpected nested table: %v", raw["mesa"])
	}
}

func TestUserPasswordHashIsNotSerialized(t *testing.T) {
	data, err := json.Marshal(User{ID: 1, Name: "Ana", PassHash: []byte("secret")})
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["PassHash"]; ok {
		t.Fatal("password hash leaked into JSON")
	}
}
