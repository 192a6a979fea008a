package timeline

import "strconv"

// milestoneLabels is the single source of truth for age milestones, used by
// both the summary computation and the presentation layer.
var milestoneLabels = map[int]string{
	0:  "born",
	1:  "first birthday",
	5:  "starts school",
	13: "becomes a teenager",
	16: "sweet sixteen",
	18: "turns 18",
	22: "college graduation age",
	30: "turns 30",
	40: "turns 40",
	50: "turns 50",
	60: "turns 60",
	65: "retirement age",
	70: "turns 70",
	80: "turns 80",
}

// MilestoneFor returns the milestone label for an age, if one applies.
// Beyond the fixed table, every round decade counts.
func MilestoneFor(age int) (string, bool) {
	if label, ok := milestoneLabels[age]; ok {
		return label, true
	}
	if age > 0 && age%10 == 0 {
		return "turns " + strconv.Itoa(age), true
	}
	return "", false
}
