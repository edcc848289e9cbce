package enums

import "fmt"

// GoalType identifies which dashboard metric a performance goal tracks.
type GoalType string

const (
	GoalTypeSales      GoalType = "sales"
	GoalTypeCustomers  GoalType = "customers"
	GoalTypeReviews    GoalType = "reviews"
	GoalTypeConversion GoalType = "conversion"
	GoalTypeAOV        GoalType = "aov"
)

var validGoalTypes = []GoalType{
	GoalTypeSales,
	GoalTypeCustomers,
	GoalTypeReviews,
	GoalTypeConversion,
	GoalTypeAOV,
}

// String implements fmt.Stringer.
func (g GoalType) String() string {
	return string(g)
}

// IsValid reports whether the value is known.
func (g GoalType) IsValid() bool {
	for _, candidate := range validGoalTypes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGoalType converts raw input into a GoalType.
func ParseGoalType(value string) (GoalType, error) {
	for _, candidate := range validGoalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid goal type %q", value)
}

// GoalPeriod is the evaluation window for a performance goal.
type GoalPeriod string

const (
	GoalPeriodDaily     GoalPeriod = "daily"
	GoalPeriodWeekly    GoalPeriod = "weekly"
	GoalPeriodMonthly   GoalPeriod = "monthly"
	GoalPeriodQuarterly GoalPeriod = "quarterly"
	GoalPeriodYearly    GoalPeriod = "yearly"
)

var validGoalPeriods = []GoalPeriod{
	GoalPeriodDaily,
	GoalPeriodWeekly,
	GoalPeriodMonthly,
	GoalPeriodQuarterly,
	GoalPeriodYearly,
}

// String implements fmt.Stringer.
func (g GoalPeriod) String() string {
	return string(g)
}

// IsValid reports whether the value is known.
func (g GoalPeriod) IsValid() bool {
	for _, candidate := range validGoalPeriods {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGoalPeriod converts raw input into a GoalPeriod.
func ParseGoalPeriod(value string) (GoalPeriod, error) {
	for _, candidate := range validGoalPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid goal period %q", value)
}
