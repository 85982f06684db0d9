package openblox

import (
	"net/http"
	"reflect"
	"testing"
)

func TestParseBody(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want any
	}{
		{"empty body", nil, nil},
		{"json object", []byte(`{"name":"builderman"}`), map[string]any{"name": "builderman"}},
		{"json array", []byte(`[1,2]`), []any{float64(1), float64(2)}},
		{"json number", []byte(`42`), float64(42)},
		{"plain text falls back verbatim", []byte("not json at all"), "not json at all"},
		{"html falls back verbatim", []byte("<html>502</html>"), "<html>502</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBody(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseBody() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSuccessStatusCheck(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		validCodes []int
		want       bool
	}{
		{"200 always succeeds", 200, nil, true},
		{"204 fails by default", 204, nil, false},
		{"404 fails by default", 404, nil, false},
		{"declared code succeeds", 404, []int{404}, true},
		{"200 succeeds alongside declared codes", 200, []int{404}, true},
		{"undeclared code still fails", 500, []int{404}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: tt.status}
			if got := resp.success(tt.validCodes); got != tt.want {
				t.Errorf("success(%v) with status %d = %v, want %v", tt.validCodes, tt.status, got, tt.want)
			}
		})
	}
}

func TestAttachErrorsFirstWins(t *testing.T) {
	resp := &Response{StatusCode: 400}

	first := []ErrorDetail{{Code: "1", Message: "first"}}
	second := []ErrorDetail{{Code: "2", Message: "second"}}

	resp.attachErrors(first)
	resp.attachErrors(second)

	if len(resp.Errors) != 1 || resp.Errors[0].Message != "first" {
		t.Errorf("Errors = %+v, want the first attachment only", resp.Errors)
	}
}

func TestAttachErrorsNilDetails(t *testing.T) {
	resp := &Response{StatusCode: 400}
	resp.attachErrors(nil)
	resp.attachErrors([]ErrorDetail{{Code: "1", Message: "late"}})

	if resp.Errors != nil {
		t.Errorf("a nil first attachment still pins the envelope: %+v", resp.Errors)
	}
}

func TestResponseDecode(t *testing.T) {
	resp := newResponse("https://users.roblox.com/v1/users/1", 200, http.Header{}, []byte(`{"id":1,"name":"Roblox"}`), nil)

	var user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := resp.Decode(&user); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if user.ID != 1 || user.Name != "Roblox" {
		t.Errorf("decoded %+v", user)
	}
	if body, ok := resp.Body.(map[string]any); !ok || body["name"] != "Roblox" {
		t.Errorf("Body = %#v, want parsed map", resp.Body)
	}
}
