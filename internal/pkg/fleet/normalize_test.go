package fleet

import (
	"testing"

	"fleet-dashboard/internal/model"
)

func TestNormalizeToSequence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []model.ConfigSummary
	}{
		{
			name: "lone object",
			body: `{"describeStep":"a","prepareStep":"b","configureStep":"c"}`,
			want: []model.ConfigSummary{{DescribeStep: "a", PrepareStep: "b", ConfigureStep: "c"}},
		},
		{
			name: "one element array",
			body: ` [{"describeStep":"a","prepareStep":"b","configureStep":"c"}]`,
			want: []model.ConfigSummary{{DescribeStep: "a", PrepareStep: "b", ConfigureStep: "c"}},
		},
		{
			name: "two element array",
			body: `[{"describeStep":"a"},{"describeStep":"x"}]`,
			want: []model.ConfigSummary{{DescribeStep: "a"}, {DescribeStep: "x"}},
		},
		{name: "empty array", body: `[]`, want: []model.ConfigSummary{}},
		{name: "null", body: `null`, want: []model.ConfigSummary{}},
		{name: "empty body", body: ``, want: []model.ConfigSummary{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeToSequence[model.ConfigSummary]([]byte(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("result must never be nil")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestNormalizeToSequenceMalformed(t *testing.T) {
	for _, body := range []string{`{"describeStep":`, `[1,`, `"text"`} {
		if _, err := NormalizeToSequence[model.ConfigSummary]([]byte(body)); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
}
