package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/internal/schedules"
	"github.com/iwvelando/loan-schedule/pkg/optimization"
	"go.uber.org/zap"
)

func testResults(t *testing.T) []schedules.ScenarioSchedule {
	t.Helper()

	conf := config.Configuration{
		Scenarios: []config.Scenario{
			{
				Name:      "Test Scenario",
				Active:    true,
				StartDate: "2026-01",
				Loan: config.Loan{
					Principal:          100000,
					InterestRate:       0.06,
					Term:               10,
					RepaymentFrequency: "monthly",
				},
			},
		},
	}

	results, err := schedules.Generate(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return results
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	results := testResults(t)

	output := captureStdout(t, func() {
		PrettyFormat(results)
	})

	if !strings.Contains(output, "--- Results for scenario Test Scenario ---") {
		t.Errorf("PrettyFormat missing scenario header")
	}
	if !strings.Contains(output, "Period | Date    | Repayment | Interest Paid | Principal Paid | Balance") {
		t.Errorf("PrettyFormat missing table header")
	}
	if !strings.Contains(output, "2026-01") {
		t.Errorf("PrettyFormat missing start date label")
	}
	if !strings.Contains(output, "2026-02") {
		t.Errorf("PrettyFormat missing first period date label")
	}
	if !strings.Contains(output, "$100,000.00") {
		t.Errorf("PrettyFormat missing grouped starting balance")
	}
	if !strings.Contains(output, "$1,110.21") {
		t.Errorf("PrettyFormat missing first repayment")
	}
	if !strings.Contains(output, "Paid off at period 120") {
		t.Errorf("PrettyFormat missing payoff summary")
	}
}

func TestPrettyFormatWithoutStartDate(t *testing.T) {
	results := testResults(t)
	results[0].StartDate = ""

	output := captureStdout(t, func() {
		PrettyFormat(results)
	})

	if !strings.Contains(output, "Period | Repayment | Interest Paid | Principal Paid | Balance") {
		t.Errorf("PrettyFormat missing undated table header")
	}
	if strings.Contains(output, "2026-") {
		t.Errorf("PrettyFormat printed date labels without a start date")
	}
}

func TestPrettyFormatOptimizationSummary(t *testing.T) {
	results := testResults(t)
	results[0].Optimization = &optimization.Summary{
		Scope:              "scenario",
		TargetName:         "Test Scenario",
		TargetPayoffPeriod: 96,
		Value:              203.89,
		ValueDisplay:       "$203.89",
		PayoffPeriod:       96,
		Iterations:         18,
		Converged:          true,
	}

	output := captureStdout(t, func() {
		PrettyFormat(results)
	})

	if !strings.Contains(output, "Optimized extra repayment: $203.89") {
		t.Errorf("PrettyFormat missing optimization summary, got:\n%s", output)
	}
}

func TestCsvFormatMatchesCsvString(t *testing.T) {
	results := testResults(t)

	output := captureStdout(t, func() {
		CsvFormat(results)
	})

	if output != CsvString(results) {
		t.Errorf("CsvFormat output differs from CsvString")
	}
}

func TestCsvString(t *testing.T) {
	results := testResults(t)

	csv := CsvString(results)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	if lines[0] != `"scenario","period","date","repayment","interestPaid","principalPaid","futureValue"` {
		t.Errorf("CsvString header = %s", lines[0])
	}

	// One header plus 121 entries.
	if len(lines) != 122 {
		t.Fatalf("CsvString produced %d lines, want 122", len(lines))
	}

	if lines[1] != `"Test Scenario","0","2026-01","0.00","0.00","0.00","100000.00"` {
		t.Errorf("CsvString initial row = %s", lines[1])
	}
	if lines[2] != `"Test Scenario","1","2026-02","1110.21","500.00","610.21","99389.79"` {
		t.Errorf("CsvString first period row = %s", lines[2])
	}
}

func TestCsvStringOmitsUnmappableDates(t *testing.T) {
	results := testResults(t)
	results[0].Frequency = 52

	csv := CsvString(results)
	lines := strings.Split(csv, "\n")
	if !strings.Contains(lines[1], `"0","",`) {
		t.Errorf("CsvString should leave dates empty for weekly cadence, got %s", lines[1])
	}
}
