package utils

import (
	"time"

	"campus-sublets/pkg/metrics"
)

func RecordMongoOperationDuration(operation, collection string, start time.Time) {
	duration := time.Since(start).Seconds()
	metrics.MongoOperationDuration.WithLabelValues(operation, collection).Observe(duration)
}

func RecordMongoError(operation, collection string) {
	metrics.MongoErrorsTotal.WithLabelValues(operation, collection).Inc()
}

// ObserveMongo records the duration of an operation and counts it as failed
// when err is non-nil and not a plain no-documents result.
func ObserveMongo(operation, collection string, start time.Time, err error, notFound bool) {
	RecordMongoOperationDuration(operation, collection, start)
	if err != nil && !notFound {
		RecordMongoError(operation, collection)
	}
}
