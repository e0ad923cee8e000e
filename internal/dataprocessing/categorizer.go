package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"vaxclean/pkg/contracts/domain"
)

// AllAgesLabel is the aggregate label covering every age group
const AllAgesLabel = "All"

// Age buckets
const (
	BucketChildren   = "0-10 Years"
	BucketYouth      = "11-24 Years"
	BucketAdults     = "25-50 Years"
	BucketMiddleAged = "50-80 Years"
	BucketSeniors    = "80+ Years"
)

// ageGroupBuckets maps source labels to their coarse bucket
var ageGroupBuckets = map[string]string{
	"0-4":   BucketChildren,
	"5-11":  BucketChildren,
	"12-17": BucketYouth,
	"18-29": BucketYouth,
	"30-49": BucketAdults,
	"50-64": BucketMiddleAged,
	"65-79": BucketSeniors,
	"80+":   BucketSeniors,
}

// CategorizeAgeGroup maps an age-group label to its coarse bucket.
// The aggregate label and empty labels have no bucket. Labels without a
// mapping are returned unchanged.
func CategorizeAgeGroup(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if label == "" || label == AllAgesLabel {
		return "", false
	}
	if bucket, ok := ageGroupBuckets[label]; ok {
		return bucket, true
	}
	return label, true
}

// IsKnownAgeGroup reports whether label has a bucket mapping
func IsKnownAgeGroup(label string) bool {
	_, ok := ageGroupBuckets[strings.TrimSpace(label)]
	return ok
}

// Categorizer assigns buckets and filters the table
type Categorizer struct {
	strict bool
	logger *slog.Logger
}

// NewCategorizer creates a categorizer. In strict mode rows with unknown
// labels are dropped instead of passed through.
func NewCategorizer(strict bool, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Categorizer{strict: strict, logger: logger}
}

// Apply sets AgeGroupNew on every record and removes rows without a
// bucket. Summary counters are updated when summary is non-nil.
func (c *Categorizer) Apply(ctx context.Context, table *domain.VaccinationTable, summary *domain.CleaningSummary) {
	if summary == nil {
		summary = domain.NewCleaningSummary(table.Source)
	}
	summary.UnknownLabelsPassed = !c.strict

	retained := table.Records[:0]
	for _, record := range table.Records {
		label := strings.TrimSpace(record.AgeGroup)
		bucket, ok := CategorizeAgeGroup(label)
		if !ok {
			if label == "" {
				summary.RowsDroppedEmpty++
			} else {
				summary.RowsDroppedAll++
			}
			continue
		}

		if !IsKnownAgeGroup(label) {
			if summary.AddUnknownLabel(label) {
				c.logger.WarnContext(ctx, "Unknown age group label",
					slog.String("label", label),
					slog.Bool("dropped", c.strict))
			}
			if c.strict {
				summary.RowsDroppedUnknown++
				continue
			}
		}

		record.AgeGroupNew = bucket
		summary.RowsPerBucket[bucket]++
		retained = append(retained, record)
	}

	// release dropped records held by the tail of the backing array
	for i := len(retained); i < len(table.Records); i++ {
		table.Records[i] = nil
	}
	table.Records = retained
	summary.RowsRetained = len(retained)
}
