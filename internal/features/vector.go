// Package features builds the numeric feature vector consumed by the
// external fraud classifier.
package features

import "strconv"

// Size is the number of features in the vector.
const Size = 9

// Vector holds the classifier input. Field order is a hard contract with
// the trained model: changing order or count requires retraining it.
type Vector struct {
	HasUrgent       int `json:"hasUrgent"`
	NoInterview     int `json:"noInterview"`
	QuickMoney      int `json:"quickMoney"`
	KeywordCount    int `json:"keywordCount"`
	DomainMismatch  int `json:"domainMismatch"`
	FoundOnLinkedIn int `json:"foundOnLinkedIn"`
	JobsOnIndeed    int `json:"jobsOnIndeed"`
	FoundOnNaukri   int `json:"foundOnNaukri"`
	TotalJobs       int `json:"totalJobs"`
}

// Values returns the features in contract order.
func (v Vector) Values() [Size]int {
	return [Size]int{
		v.HasUrgent,
		v.NoInterview,
		v.QuickMoney,
		v.KeywordCount,
		v.DomainMismatch,
		v.FoundOnLinkedIn,
		v.JobsOnIndeed,
		v.FoundOnNaukri,
		v.TotalJobs,
	}
}

// Args renders the vector as classifier process arguments, in order.
func (v Vector) Args() []string {
	values := v.Values()
	args := make([]string, 0, Size)
	for _, value := range values {
		args = append(args, strconv.Itoa(value))
	}
	return args
}
