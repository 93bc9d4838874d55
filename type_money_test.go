package portfolio

import (
	"encoding/json"
	"testing"
)

func TestMoneyFormat(t *testing.T) {
	testCases := []struct {
		money  Money
		signed bool
		want   string
	}{
		{money: M(1234.5), want: "$1,234.50"},
		{money: M(0.005), want: "$0.01"},
		{money: M(0), want: "$0.00"},
		{money: M(12), signed: true, want: "+$12.00"},
		{money: M(0), signed: true, want: "$0.00"},
	}

	for _, tc := range testCases {
		got := tc.money.Format("USD")
		if tc.signed {
			got = tc.money.SignedFormat("USD")
		}
		if got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.money, got, tc.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		input   string
		want    Quantity
		wantErr bool
	}{
		{input: "10", want: Q(10)},
		{input: "0.125", want: Q(0.125)},
		{input: " 3 ", want: Q(3)},
		{input: "ten", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseQuantity(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseQuantity(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNumbersJSON(t *testing.T) {
	type record struct {
		Q Quantity `json:"q"`
		M Money    `json:"m"`
	}
	got, err := json.Marshal(record{Q: Q(1.5), M: M(99.99)})
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if want := `{"q":1.5,"m":99.99}`; string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	var r record
	if err := json.Unmarshal([]byte(`{"q":"2","m":"10.5"}`), &r); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if !r.Q.Equal(Q(2)) || !r.M.Equal(M(10.5)) {
		t.Errorf("Unmarshal() = %v, %v, want 2, 10.5", r.Q, r.M)
	}
}
