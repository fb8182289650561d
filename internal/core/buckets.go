package core

import "fmt"

// Bucket names a semantic grouping of activity categories used for
// day-total aggregation.
type Bucket string

const (
	BucketDeclared      Bucket = "declared"
	BucketBilled        Bucket = "billed"
	BucketRTTRedemption Bucket = "rtt_redemption"
	BucketAbsence       Bucket = "absence"
	BucketExtraHours    Bucket = "extra_hours"
	BucketOnCall        Bucket = "on_call"
)

// CategorySet is a membership set over activity categories.
type CategorySet map[ActivityCategory]struct{}

func NewCategorySet(categories ...ActivityCategory) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

func (s CategorySet) Contains(c ActivityCategory) bool {
	_, ok := s[c]
	return ok
}

// Union returns the combined membership of both sets.
func (s CategorySet) Union(other CategorySet) CategorySet {
	out := make(CategorySet, len(s)+len(other))
	for c := range s {
		out[c] = struct{}{}
	}
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}

// bucketTable is the single source of truth mapping buckets to category
// membership. Changing business rules means changing this table, not
// logic. A category may appear in more than one bucket; the buckets fed
// to a single invoice computation (billed, extra_hours, on_call) are
// pairwise disjoint.
var bucketTable = map[Bucket]CategorySet{
	BucketDeclared: NewCategorySet(
		CategoryWorkedDay,
		CategoryPaidLeave,
		CategoryUnpaidLeave,
		CategorySickLeave,
		CategoryRTT,
		CategoryRTTRedemption,
		CategoryExceptionalAbsence,
	),
	BucketBilled:        NewCategorySet(CategoryWorkedDay),
	BucketRTTRedemption: NewCategorySet(CategoryRTTRedemption),
	BucketAbsence: NewCategorySet(
		CategoryPaidLeave,
		CategoryUnpaidLeave,
		CategorySickLeave,
		CategoryRTT,
		CategoryExceptionalAbsence,
	),
	BucketExtraHours: NewCategorySet(CategoryOvertime),
	BucketOnCall:     NewCategorySet(CategoryOnCall),
}

// Buckets returns the fixed bucket names in table order.
func Buckets() []Bucket {
	return []Bucket{
		BucketDeclared,
		BucketBilled,
		BucketRTTRedemption,
		BucketAbsence,
		BucketExtraHours,
		BucketOnCall,
	}
}

// BucketCategories returns the membership set of a bucket. Unknown
// buckets return an empty set.
func BucketCategories(b Bucket) CategorySet {
	return bucketTable[b]
}

// SumDaysByCategory sums the hour quantities of the activities whose
// category belongs to the given set and converts the total to days.
// Empty input or no matching activity yields 0.000, never an error.
func SumDaysByCategory(activities []Activity, categories CategorySet) Days {
	hours := 0
	for _, a := range activities {
		if categories.Contains(a.Category) {
			hours += a.Quantity
		}
	}
	days, err := HoursToDays(hours)
	if err != nil {
		// Quantities are validated non-negative at creation, so the
		// summed total cannot be negative.
		panic(fmt.Sprintf("sum of validated quantities is negative: %d", hours))
	}
	return days
}

// SumDaysByBucket is SumDaysByCategory over a named bucket.
func SumDaysByBucket(activities []Activity, b Bucket) Days {
	return SumDaysByCategory(activities, bucketTable[b])
}

// CheckBucketTable verifies that every activity category belongs to at
// least one bucket and that no bucket references an unknown category.
// Run by tests to keep the table exhaustive over the enum.
func CheckBucketTable() error {
	covered := make(map[ActivityCategory]bool)
	for b, set := range bucketTable {
		for c := range set {
			if !c.Valid() {
				return fmt.Errorf("bucket %s references unknown category %q", b, c)
			}
			covered[c] = true
		}
	}
	for _, c := range allCategories {
		if !covered[c] {
			return fmt.Errorf("category %q belongs to no bucket", c)
		}
	}
	return nil
}
