// Package output provides utilities for formatting and displaying schedule results.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-schedule/internal/schedules"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []schedules.ScenarioSchedule) {
	p := message.NewPrinter(language.English)
	for _, result := range results {
		fmt.Printf("--- Results for scenario %s ---\n", result.Name)
		dates := periodDates(result)
		if dates != nil {
			fmt.Printf("Period | Date    | Repayment | Interest Paid | Principal Paid | Balance\n")
			fmt.Printf("______ | ____    | _________ | _____________ | ______________ | _______\n")
		} else {
			fmt.Printf("Period | Repayment | Interest Paid | Principal Paid | Balance\n")
			fmt.Printf("______ | _________ | _____________ | ______________ | _______\n")
		}
		for i, entry := range result.Result.Entries {
			if dates != nil {
				_, _ = p.Printf("%6d | %s | $%.2f | $%.2f | $%.2f | $%.2f\n",
					entry.Period, dates[i], entry.Repayment, entry.InterestPaid, entry.PrincipalPaid, entry.FutureValue)
			} else {
				_, _ = p.Printf("%6d | $%.2f | $%.2f | $%.2f | $%.2f\n",
					entry.Period, entry.Repayment, entry.InterestPaid, entry.PrincipalPaid, entry.FutureValue)
			}
		}

		totals := result.Result.Totals
		if result.Result.PaidOff() {
			_, _ = p.Printf("Paid off at period %d with total repayment $%.2f and total interest $%.2f\n",
				result.Result.PayoffPeriod(), totals.Repayment, totals.InterestPaid)
		} else if len(result.Result.Entries) > 0 {
			last := result.Result.Entries[len(result.Result.Entries)-1]
			_, _ = p.Printf("Balance $%.2f outstanding after period %d with total repayment $%.2f and total interest $%.2f\n",
				last.FutureValue, last.Period, totals.Repayment, totals.InterestPaid)
		}

		if result.Optimization != nil {
			summary := result.Optimization
			if summary.Converged {
				fmt.Printf("Optimized extra repayment: %s reaches payoff at period %d (target %d, %d iterations)\n",
					summary.ValueDisplay, summary.PayoffPeriod, summary.TargetPayoffPeriod, summary.Iterations)
			} else {
				fmt.Printf("Optimizer did not converge: %s\n", strings.Join(summary.Notes, "; "))
			}
		}

		if len(results) > 1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []schedules.ScenarioSchedule) {
	fmt.Print(CsvString(results))
}

// CsvString renders the results in comma-separated value format. Scenarios
// pay off at different periods, so rows carry the scenario name rather than
// pivoting scenarios into columns.
func CsvString(results []schedules.ScenarioSchedule) string {
	var builder strings.Builder
	builder.WriteString(`"scenario","period","date","repayment","interestPaid","principalPaid","futureValue"` + "\n")
	for _, result := range results {
		dates := periodDates(result)
		for i, entry := range result.Result.Entries {
			date := ""
			if dates != nil {
				date = dates[i]
			}
			fmt.Fprintf(&builder, `"%s","%d","%s","%.2f","%.2f","%.2f","%.2f"`+"\n",
				result.Name, entry.Period, date, entry.Repayment, entry.InterestPaid, entry.PrincipalPaid, entry.FutureValue)
		}
	}
	return builder.String()
}

// periodDates labels every entry with a calendar month, or returns nil when
// the scenario has no start date or repays on a cadence months cannot label.
func periodDates(result schedules.ScenarioSchedule) []string {
	if result.StartDate == "" || result.Result == nil {
		return nil
	}
	if _, ok := datetime.MonthsPerPeriod(int(result.Frequency)); !ok {
		return nil
	}
	dates := make([]string, len(result.Result.Entries))
	for i, entry := range result.Result.Entries {
		date, err := datetime.PeriodDate(result.StartDate, int(result.Frequency), entry.Period)
		if err != nil {
			return nil
		}
		dates[i] = date
	}
	return dates
}
