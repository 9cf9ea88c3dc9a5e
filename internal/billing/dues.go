package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
)

// DuesInput carries everything the leaving-dues calculation needs. Billing
// spans [JoinDate, LeaveDate] inclusive; ApprovedPayments is the sum of
// already-approved payment amounts inside that span.
type DuesInput struct {
	JoinDate           time.Time
	LeaveDate          time.Time
	RentType           domain.RentType
	MonthlyRent        decimal.Decimal
	PerDayPrice        decimal.Decimal
	MonthlyElectricity decimal.Decimal
	ApprovedPayments   decimal.Decimal
}

// DuesBreakdown is the settlement snapshot stored on a leaving request.
// Total is floored at zero; an overpayment shows up as Credit instead of
// pushing the total negative.
type DuesBreakdown struct {
	RentDue        decimal.Decimal
	ElectricityDue decimal.Decimal
	ApprovedCredit decimal.Decimal
	Credit         decimal.Decimal
	Total          decimal.Decimal
}

// ComputeDues calculates the amount a leaving member owes as of their
// requested leave date. Long-term rent charges full months for every month
// fully covered by the span and prorates partial months by inclusive day
// count over the month's length; short-term rent is per-day price times the
// inclusive day count of the whole span. Electricity is billed monthly and
// prorated exactly like long-term rent. Deterministic and idempotent.
func ComputeDues(in DuesInput) (DuesBreakdown, error) {
	join := dateOnly(in.JoinDate)
	leave := dateOnly(in.LeaveDate)
	if leave.Before(join) {
		return DuesBreakdown{}, domain.Validationf("leave date %s precedes join date %s",
			leave.Format("2006-01-02"), join.Format("2006-01-02"))
	}

	var rentDue decimal.Decimal
	switch in.RentType {
	case domain.RentTypeShortTerm:
		days := inclusiveDays(join, leave)
		rentDue = in.PerDayPrice.Mul(decimal.NewFromInt(int64(days)))
	default:
		rentDue = prorateMonthly(in.MonthlyRent, join, leave)
	}

	elecDue := prorateMonthly(in.MonthlyElectricity, join, leave)

	rentDue = rentDue.Round(2)
	elecDue = elecDue.Round(2)

	net := rentDue.Add(elecDue).Sub(in.ApprovedPayments)
	bd := DuesBreakdown{
		RentDue:        rentDue,
		ElectricityDue: elecDue,
		ApprovedCredit: in.ApprovedPayments,
		Credit:         decimal.Zero,
		Total:          net,
	}
	if net.IsNegative() {
		bd.Credit = net.Neg()
		bd.Total = decimal.Zero
	}
	return bd, nil
}

// prorateMonthly walks every calendar month the span touches: months fully
// covered contribute the full monthly charge, partial months contribute
// charge x days/daysInMonth with both endpoints counted.
func prorateMonthly(monthly decimal.Decimal, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	monthStart := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !monthStart.After(to) {
		dim := DaysInMonth(monthStart.Month(), monthStart.Year())
		monthEnd := monthStart.AddDate(0, 0, dim-1)

		start, end := monthStart, monthEnd
		if from.After(start) {
			start = from
		}
		if to.Before(end) {
			end = to
		}
		days := inclusiveDays(start, end)

		if days == dim {
			total = total.Add(monthly)
		} else {
			total = total.Add(monthly.
				Mul(decimal.NewFromInt(int64(days))).
				Div(decimal.NewFromInt(int64(dim))))
		}
		monthStart = monthStart.AddDate(0, 1, 0)
	}
	return total
}

func inclusiveDays(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}
